package main

import (
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/search-planner/internal/planner"
)

func newSpiralCmd() *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "spiral",
		Short: "Plan an expanding-square search about the reference point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, &f)
			if err != nil {
				return err
			}
			m := s.mission
			plan, err := s.planner.PlanSpiral(cmd.Context(), s.vehicle.ID, planner.SpiralRequest{
				Config:      m.PatternConfig(s.vehicle.SwarmIndex),
				Reference:   m.Reference,
				LocalOrigin: m.LocalOrigin,
				Orientation: m.SpiralOrientation(),
				HoldTime:    m.HoldTime,
			})
			return s.finish(cmd, plan, err)
		},
	}
	bindPlanFlags(cmd, &f)
	return cmd
}

func newLawnmowerCmd() *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "lawnmower",
		Short: "Plan a back-and-forth coverage sweep clipped to the mission boundary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, &f)
			if err != nil {
				return err
			}
			plan, err := s.planner.PlanLawnmower(cmd.Context(), s.vehicle.ID, planner.LawnmowerRequest{
				Config:   s.mission.LawnmowerConfig(),
				HoldTime: s.mission.HoldTime,
			})
			return s.finish(cmd, plan, err)
		},
	}
	bindPlanFlags(cmd, &f)
	return cmd
}
