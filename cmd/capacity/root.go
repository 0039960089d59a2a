package capacity

import (
	"fmt"
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	capacitydao "github.com/ValentinKolb/kvsolar/lib/dao/capacity"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/spf13/cobra"
	"strconv"
	"time"
)

var (
	capacityDAO dao.ICapacityDAO

	// CapacityCommands represents the capacity ranking command group
	CapacityCommands = &cobra.Command{
		Use:               "capacity",
		Short:             "Maintain and read the capacity ranking",
		PersistentPreRunE: setupCapacityDAO,
	}

	setCmd = &cobra.Command{
		Use:   "set [id] [score]",
		Short: "Sets the capacity score of a site",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			score, err := util.ParseFloats(args[1:], "score")
			if err != nil {
				return err
			}
			if err := capacityDAO.SetScore(util.Context(cmd), id, score[0]); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [id] [whGenerated] [whUsed]",
		Short: "Sets the capacity score of a site from a meter reading (generated - used)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			wh, err := util.ParseFloats(args[1:], "whGenerated", "whUsed")
			if err != nil {
				return err
			}
			reading := model.MeterReading{SiteID: id, Timestamp: time.Now(), WhGenerated: wh[0], WhUsed: wh[1]}
			if err := capacityDAO.Update(util.Context(cmd), reading); err != nil {
				return err
			}
			fmt.Printf("site=%d, score=%v\n", id, reading.ExcessCapacity())
			return nil
		},
	}
	rankCmd = &cobra.Command{
		Use:   "rank [id]",
		Short: "Prints the rank of a site (0 = highest capacity)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			rank, found, err := capacityDAO.GetRank(util.Context(cmd), id)
			if err != nil {
				return err
			}
			fmt.Printf("site=%d, found=%t, rank=%d\n", id, found, rank)
			return nil
		},
	}
	reportCmd = &cobra.Command{
		Use:   "report [limit]",
		Short: "Prints the sites with the highest and lowest capacity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("limit must be an integer: %w", err)
			}
			report, err := capacityDAO.GetReport(util.Context(cmd), limit)
			if err != nil {
				return err
			}
			return util.PrintJSON(report)
		},
	}
)

func init() {
	util.SetupClientFlags(CapacityCommands)

	// Add subcommands
	CapacityCommands.AddCommand(setCmd)
	CapacityCommands.AddCommand(updateCmd)
	CapacityCommands.AddCommand(rankCmd)
	CapacityCommands.AddCommand(reportCmd)
}

func setupCapacityDAO(cmd *cobra.Command, _ []string) error {
	s, k, err := util.Connect(cmd)
	if err != nil {
		return err
	}
	capacityDAO = capacitydao.NewCapacityDAO(s.Client(), k)
	return nil
}
