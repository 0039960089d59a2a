package sites

import (
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	"github.com/ValentinKolb/kvsolar/lib/dao/sitegeo"
	"github.com/spf13/cobra"
)

var (
	siteDAO dao.ISiteGeoDAO

	// SiteCommands represents the site command group
	SiteCommands = &cobra.Command{
		Use:               "sites",
		Short:             "Store sites and query them by position",
		PersistentPreRunE: setupSiteDAO,
	}
)

func init() {
	util.SetupClientFlags(SiteCommands)

	// unit flag for the radius queries
	for _, c := range []*cobra.Command{geoCmd, excessCmd} {
		c.Flags().String("unit", "km", util.WrapString("The unit of the radius (km, mi)"))
	}

	key := "panels"
	insertCmd.Flags().Int64(key, 0, util.WrapString("Number of solar panels"))
	key = "capacity"
	insertCmd.Flags().Float64(key, 0, util.WrapString("Capacity of the site in kWh"))
	key = "address"
	insertCmd.Flags().String(key, "", util.WrapString("Street address"))
	key = "city"
	insertCmd.Flags().String(key, "", util.WrapString("City"))
	key = "state"
	insertCmd.Flags().String(key, "", util.WrapString("State"))
	key = "postal-code"
	insertCmd.Flags().String(key, "", util.WrapString("Postal code"))

	// Add subcommands
	SiteCommands.AddCommand(insertCmd)
	SiteCommands.AddCommand(getCmd)
	SiteCommands.AddCommand(allCmd)
	SiteCommands.AddCommand(geoCmd)
	SiteCommands.AddCommand(excessCmd)
}

func setupSiteDAO(cmd *cobra.Command, _ []string) error {
	s, k, err := util.Connect(cmd)
	if err != nil {
		return err
	}
	siteDAO = sitegeo.NewSiteGeoDAO(s.Client(), k)
	return nil
}
