package util

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/kvsolar/lib/common"
	"github.com/ValentinKolb/kvsolar/lib/keys"
	"github.com/ValentinKolb/kvsolar/lib/store/rstore"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strconv"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

var (
	log = logger.GetLogger("cmd")

	// stores opened by Connect, closed by CloseStores
	openStores []*rstore.Store
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var line strings.Builder

	for _, word := range strings.Fields(text) {
		// wrap before the word if it does not fit anymore
		if line.Len() > 0 && line.Len()+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}

	if line.Len() > 0 {
		wrappedLines = append(wrappedLines, line.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds the redis connection flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "endpoints"
	cmd.PersistentFlags().String(key, "localhost:6379", WrapString("The address of the redis server (host:port). Multiple endpoints can be specified as a comma-separated list to connect to a cluster"))

	key = "password"
	cmd.PersistentFlags().String(key, "", WrapString("The password of the redis server"))

	key = "db"
	cmd.PersistentFlags().Int(key, 0, WrapString("The redis database to select (ignored for clusters)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The dial, read and write timeout of the client in seconds"))

	key = "retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry a failed command (-1 disables retries)"))

	key = "pool-size"
	cmd.PersistentFlags().Int(key, 10, WrapString("Maximum number of connections per endpoint"))

	key = "key-prefix"
	cmd.PersistentFlags().String(key, common.DefaultKeyPrefix, WrapString("The namespace of all keys written by the site, capacity and metric commands"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("kvsolar")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	endpoints := make([]string, 0)
	for _, e := range strings.Split(viper.GetString("endpoints"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}

	return &common.ClientConfig{
		Endpoints:     endpoints,
		Password:      viper.GetString("password"),
		DB:            viper.GetInt("db"),
		TimeoutSecond: viper.GetInt("timeout"),
		RetryCount:    viper.GetInt("retries"),
		PoolSize:      viper.GetInt("pool-size"),
		KeyPrefix:     viper.GetString("key-prefix"),
		LogLevel:      viper.GetString("log-level"),
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// Connect binds the flags of cmd, opens a redis store with the resulting configuration
// and returns it together with the key generator for the configured prefix.
// The store is closed by CloseStores.
func Connect(cmd *cobra.Command) (*rstore.Store, *keys.Generator, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return nil, nil, err
	}

	config := GetClientConfig()
	s, err := rstore.NewRedisStore(Context(cmd), *config)
	if err != nil {
		return nil, nil, err
	}
	openStores = append(openStores, s)
	return s, keys.New(config.Prefix()), nil
}

// CloseStores closes all stores opened by Connect. It is registered with
// cobra.OnFinalize, so it also runs when a command failed.
func CloseStores() {
	for _, s := range openStores {
		if err := s.Close(); err != nil {
			log.Warningf("failed to close store: %v", err)
		}
	}
	openStores = nil
}

// Context returns the context of a command or context.Background if none is set
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// PrintJSON prints v as indented JSON to stdout
func PrintJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// ParseFloats parses all args as float64, name is used in the error message of the first invalid arg
func ParseFloats(args []string, names ...string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			name := fmt.Sprintf("argument %d", i+1)
			if i < len(names) {
				name = names[i]
			}
			return nil, fmt.Errorf("%s must be a number: %w", name, err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseID parses a site id
func ParseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("site id must be an integer: %w", err)
	}
	return id, nil
}
