// Package model contains the domain types shared by the DAO packages and the
// command-line interface: sites with their optional coordinate, distance
// units, meter readings, metric measurements and the capacity report.
package model
