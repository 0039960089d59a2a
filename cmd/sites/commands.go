package sites

import (
	"fmt"
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/spf13/cobra"
)

var (
	insertCmd = &cobra.Command{
		Use:   "insert [id] [lat] [lng]",
		Short: "Stores a site and adds it to the geo index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			coords, err := util.ParseFloats(args[1:], "lat", "lng")
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			site := model.Site{
				ID:         id,
				Coordinate: &model.Coordinate{Lat: coords[0], Lng: coords[1]},
			}
			site.Panels, _ = flags.GetInt64("panels")
			site.Capacity, _ = flags.GetFloat64("capacity")
			site.Address, _ = flags.GetString("address")
			site.City, _ = flags.GetString("city")
			site.State, _ = flags.GetString("state")
			site.PostalCode, _ = flags.GetString("postal-code")

			key, err := siteDAO.Insert(util.Context(cmd), site)
			if err != nil {
				return err
			}
			fmt.Printf("inserted site %d (key=%s)\n", id, key)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Reads a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return err
			}
			site, found, err := siteDAO.FindByID(util.Context(cmd), id)
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("site=%d, found=false\n", id)
				return nil
			}
			return util.PrintJSON(site)
		},
	}
	allCmd = &cobra.Command{
		Use:   "all",
		Short: "Lists all sites of the geo index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sites, err := siteDAO.FindAll(util.Context(cmd))
			if err != nil {
				return err
			}
			return util.PrintJSON(sites)
		},
	}
	geoCmd = &cobra.Command{
		Use:   "geo [lat] [lng] [radius]",
		Short: "Lists all sites within radius of a point",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, unit, err := parseQuery(cmd, args)
			if err != nil {
				return err
			}
			sites, err := siteDAO.FindByGeo(util.Context(cmd), q[0], q[1], q[2], unit)
			if err != nil {
				return err
			}
			return util.PrintJSON(sites)
		},
	}
	excessCmd = &cobra.Command{
		Use:   "excess [lat] [lng] [radius]",
		Short: "Lists all sites with excess capacity within radius of a point",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, unit, err := parseQuery(cmd, args)
			if err != nil {
				return err
			}
			sites, err := siteDAO.FindByGeoWithExcessCapacity(util.Context(cmd), q[0], q[1], q[2], unit)
			if err != nil {
				return err
			}
			return util.PrintJSON(sites)
		},
	}
)

// parseQuery reads lat, lng and radius from the args and the unit from the flags
func parseQuery(cmd *cobra.Command, args []string) ([]float64, model.GeoUnit, error) {
	q, err := util.ParseFloats(args, "lat", "lng", "radius")
	if err != nil {
		return nil, "", err
	}
	unit, _ := cmd.Flags().GetString("unit")
	return q, model.GeoUnit(unit), nil
}
