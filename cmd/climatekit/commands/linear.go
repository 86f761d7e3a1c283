package commands

import (
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/spf13/cobra"
)

var (
	linBaselineYear      int
	linBaselineEmissions float64
	linTargetPercent     float64
	linTargetYear        int
	linScaleYear         float64
)

type linearOutput struct {
	pathway.Line
	ScaleYear       *float64 `json:"scale_year,omitempty"`
	ScaledEmissions *float64 `json:"scaled_emissions,omitempty"`
}

var LinearCmd = &cobra.Command{
	Use:   "linear",
	Short: "Straight-line pathway from a baseline to a target reduction",
	Example: `  climatekit linear --baseline-year 2020 --baseline-emissions 100 \
    --target-percent 50 --target-year 2030 --scale-year 2025`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, svc, err := setup(cmd)
		if err != nil {
			return err
		}
		line, err := svc.Linear(linBaselineYear, linBaselineEmissions, linTargetPercent, linTargetYear)
		if err != nil {
			return err
		}

		out := linearOutput{Line: line}
		if cmd.Flags().Changed("scale-year") {
			scaled, err := svc.Scaled(linBaselineYear, linBaselineEmissions, linTargetPercent, linTargetYear, linScaleYear)
			if err != nil {
				return err
			}
			year := linScaleYear
			out.ScaleYear, out.ScaledEmissions = &year, &scaled
		}
		return printValue(cmd.OutOrStdout(), out)
	},
}

func init() {
	f := LinearCmd.Flags()
	f.IntVar(&linBaselineYear, "baseline-year", 0, "baseline year")
	f.Float64Var(&linBaselineEmissions, "baseline-emissions", 0, "baseline emissions")
	f.Float64Var(&linTargetPercent, "target-percent", 0, "percent reduction reached at the target year")
	f.IntVar(&linTargetYear, "target-year", 0, "target year")
	f.Float64Var(&linScaleYear, "scale-year", 0, "also evaluate the line at this year")
	for _, name := range []string{"baseline-year", "baseline-emissions", "target-percent", "target-year"} {
		_ = LinearCmd.MarkFlagRequired(name)
	}
}
