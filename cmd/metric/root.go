package metric

import (
	"fmt"
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	metricdao "github.com/ValentinKolb/kvsolar/lib/dao/metric"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/spf13/cobra"
	"strconv"
	"time"
)

var (
	metricDAO dao.IMetricDAO

	// MetricCommands represents the meter reading command group
	MetricCommands = &cobra.Command{
		Use:               "metrics",
		Short:             "Store and read per-minute meter readings",
		PersistentPreRunE: setupMetricDAO,
	}

	insertCmd = &cobra.Command{
		Use:   "insert [id] [whUsed] [whGenerated] [tempC]",
		Short: "Stores a meter reading (all three metrics) at the minute of --at",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			values, err := util.ParseFloats(args[1:], "whUsed", "whGenerated", "tempC")
			if err != nil {
				return err
			}
			at, err := parseAt(cmd)
			if err != nil {
				return err
			}

			reading := model.MeterReading{
				SiteID:      id,
				Timestamp:   at,
				WhUsed:      values[0],
				WhGenerated: values[1],
				TempC:       values[2],
			}
			if err := metricDAO.Insert(util.Context(cmd), reading); err != nil {
				return err
			}
			fmt.Printf("inserted reading of site %d at %s\n", id, at.Format(time.RFC3339))
			return nil
		},
	}
	insertOneCmd = &cobra.Command{
		Use:   "insert-one [id] [unit] [value]",
		Short: "Stores a single metric (whU, whG, tempC) at the minute of --at",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			unit, err := model.ParseMetricUnit(args[1])
			if err != nil {
				return err
			}
			value, err := util.ParseFloats(args[2:], "value")
			if err != nil {
				return err
			}
			at, err := parseAt(cmd)
			if err != nil {
				return err
			}
			if err := metricDAO.InsertMetric(util.Context(cmd), id, value[0], unit, at); err != nil {
				return err
			}
			fmt.Println("inserted successfully")
			return nil
		},
	}
	recentCmd = &cobra.Command{
		Use:   "recent [id] [unit] [limit]",
		Short: "Prints up to limit measurements at or before --at, newest first",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			unit, err := model.ParseMetricUnit(args[1])
			if err != nil {
				return err
			}
			limit, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("limit must be an integer: %w", err)
			}
			at, err := parseAt(cmd)
			if err != nil {
				return err
			}
			measurements, err := metricDAO.GetRecent(util.Context(cmd), id, unit, at, limit)
			if err != nil {
				return err
			}
			return util.PrintJSON(measurements)
		},
	}
)

func init() {
	util.SetupClientFlags(MetricCommands)

	key := "at"
	MetricCommands.PersistentFlags().String(key, "", util.WrapString("Point in time as RFC3339 timestamp (default: now)"))

	// Add subcommands
	MetricCommands.AddCommand(insertCmd)
	MetricCommands.AddCommand(insertOneCmd)
	MetricCommands.AddCommand(recentCmd)
}

func setupMetricDAO(cmd *cobra.Command, _ []string) error {
	s, k, err := util.Connect(cmd)
	if err != nil {
		return err
	}
	metricDAO = metricdao.NewMetricDAO(s.Client(), k)
	return nil
}

// parseAt reads the --at flag, an empty value means now
func parseAt(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("at")
	if raw == "" {
		return time.Now(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("at must be an RFC3339 timestamp: %w", err)
	}
	return at, nil
}
