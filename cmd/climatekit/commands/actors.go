package commands

import (
	app "github.com/okian/climatekit/internal/app"
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/spf13/cobra"
)

var (
	partType     string
	targetYear   int
	datasourceID string
	baselineYear int
	target15     float64
	target20     float64
)

var PartsCmd = &cobra.Command{
	Use:   "parts ACTOR_ID",
	Short: "List an actor and its immediate parts",
	Example: `  climatekit parts CA
  climatekit parts US --type adm2 -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, err := setup(cmd)
		if err != nil {
			return err
		}
		res, err := svc.ActorParts(cmd.Context(), args[0], partType)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

var TargetCmd = &cobra.Command{
	Use:   "target ACTOR_ID",
	Short: "Show an actor's absolute emission reduction target for a year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, err := setup(cmd)
		if err != nil {
			return err
		}
		res, err := svc.GetTarget(cmd.Context(), args[0], targetYear, app.WithDatasource(datasourceID))
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

var EmissionsCmd = &cobra.Command{
	Use:   "emissions ACTOR_ID",
	Short: "Show an actor's yearly total emissions from one datasource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, err := setup(cmd)
		if err != nil {
			return err
		}
		res, err := svc.GetEmissions(cmd.Context(), args[0], datasourceID)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

var PathwayCmd = &cobra.Command{
	Use:   "pathway ACTOR_ID",
	Short: "Compute the IPCC AR6 emissions range from an actor's baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, svc, err := setup(cmd)
		if err != nil {
			return err
		}

		year, p15, p20 := cfg.BaselineYear, cfg.TargetValue15, cfg.TargetValue20
		flags := cmd.Flags()
		if flags.Changed("baseline-year") {
			year = baselineYear
		}
		if flags.Changed("target-15") {
			p15 = target15
		}
		if flags.Changed("target-20") {
			p20 = target20
		}

		res, err := svc.Pathway(cmd.Context(), args[0], datasourceID,
			pathway.WithBaselineYear(year),
			pathway.WithTargetValues(p15, p20),
		)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

func init() {
	PartsCmd.Flags().StringVar(&partType, "type", "", "part type, e.g. adm1, adm2 or city (default from configuration)")

	TargetCmd.Flags().IntVar(&targetYear, "year", 0, "target year (default from configuration)")
	TargetCmd.Flags().StringVar(&datasourceID, "datasource", "", "only consider targets from this datasource")

	EmissionsCmd.Flags().StringVar(&datasourceID, "datasource", "", "emissions datasource id")
	_ = EmissionsCmd.MarkFlagRequired("datasource")

	PathwayCmd.Flags().StringVar(&datasourceID, "datasource", "", "emissions datasource id")
	PathwayCmd.Flags().IntVar(&baselineYear, "baseline-year", pathway.DefaultBaselineYear, "baseline year")
	PathwayCmd.Flags().Float64Var(&target15, "target-15", pathway.DefaultTargetValue15, "percent reduction for 1.5C")
	PathwayCmd.Flags().Float64Var(&target20, "target-20", pathway.DefaultTargetValue20, "percent reduction for 2.0C")
	_ = PathwayCmd.MarkFlagRequired("datasource")
}
