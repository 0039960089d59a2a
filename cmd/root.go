package cmd

import (
	"fmt"
	"github.com/ValentinKolb/kvsolar/cmd/capacity"
	"github.com/ValentinKolb/kvsolar/cmd/kv"
	"github.com/ValentinKolb/kvsolar/cmd/metric"
	"github.com/ValentinKolb/kvsolar/cmd/sites"
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvsolar",
		Short: "solar site data on redis",
		Long: fmt.Sprintf(`kvsolar (v%s)

Stores solar sites, their capacity ranking and per-minute meter
readings in redis and answers geo radius queries on them.`, Version),
		SilenceUsage:       true,
		PersistentPreRunE:  setupLogging,
		PersistentPostRunE: printMetrics,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvsolar",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvsolar v%s\n", Version)
		},
	}
)

func init() {
	// run the hooks of the root command and of the command groups
	cobra.EnableTraverseRunHooks = true

	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)
	cobra.OnFinalize(util.CloseStores)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(sites.SiteCommands)
	RootCmd.AddCommand(capacity.CapacityCommands)
	RootCmd.AddCommand(metric.MetricCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warning", util.WrapString("log level (debug, info, warning, error)"))
	key = "print-metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("print the collected metrics in prometheus text format after the command finished"))
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

func printMetrics(_ *cobra.Command, _ []string) error {
	if viper.GetBool("print-metrics") {
		fmt.Println()
		metrics.WritePrometheus(os.Stdout, false)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
