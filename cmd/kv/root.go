package kv

import (
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/spf13/cobra"
)

var (
	kvStore store.IStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Basic get/set operations on raw keys",
		PersistentPreRunE: setupKVClient,
	}
)

func init() {
	// Add redis connection flags to the KV command
	util.SetupClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(setECmd)
	KeyValueCommands.AddCommand(setEIfUnsetCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(exprCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient opens the redis store
func setupKVClient(cmd *cobra.Command, _ []string) error {
	s, _, err := util.Connect(cmd)
	if err != nil {
		return err
	}
	kvStore = s
	return nil
}
