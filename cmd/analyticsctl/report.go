package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/validation"
	"placement-analytics/internal/dataset"
	"placement-analytics/internal/models"
	"placement-analytics/internal/reporting"
	"placement-analytics/pkg/registry"
)

type reportOptions struct {
	dataset   string
	at        string
	seed      int64
	timeout   time.Duration
	skipCheck bool
}

// reportTarget describes one report subcommand. Company targets accept
// --institute to restrict the report to one institute's drives.
type reportTarget struct {
	use     string
	short   string
	kind    models.ReportKind
	company bool
	scope   func(id string) models.Scope
}

var reportTargets = []reportTarget{
	{"company <companyId>", "Full company analytics", models.ReportCompanyAnalytics, true, companyScope},
	{"trends <companyId>", "Company hiring trends", models.ReportHiringTrends, true, companyScope},
	{"skills <companyId>", "Company skill demand", models.ReportSkillDemand, true, companyScope},
	{"sources <companyId>", "Company candidate sources", models.ReportCandidateSources, true, companyScope},
	{"drive <driveId>", "Single drive analytics", models.ReportDriveAnalytics, false, func(id string) models.Scope {
		return models.Scope{DriveID: id}
	}},
	{"institute <instituteId>", "Institute analytics", models.ReportInstituteAnalytics, false, func(id string) models.Scope {
		return models.Scope{InstituteID: id}
	}},
}

func companyScope(id string) models.Scope { return models.Scope{CompanyID: id} }

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a report from a dataset export and print it as JSON",
	}
	cmd.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "JSON dataset export (required)")
	cmd.PersistentFlags().StringVar(&opts.at, "at", "", "RFC 3339 timestamp to compute the report at (defaults to now)")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "seed for synthetic skill trends (0 is random)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "dataset load timeout")
	cmd.PersistentFlags().BoolVar(&opts.skipCheck, "skip-schema-check", false, "do not validate the report against the registry")
	_ = cmd.MarkPersistentFlagRequired("dataset")

	for _, target := range reportTargets {
		target := target
		var institute string
		sub := &cobra.Command{
			Use:   target.use,
			Short: target.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				scope := target.scope(args[0])
				if target.company {
					scope.InstituteID = institute
				}
				return runReport(c, root, opts, reporting.Request{Kind: target.kind, Scope: scope})
			},
		}
		if target.company {
			sub.Flags().StringVar(&institute, "institute", "", "only count drives run at this institute")
		}
		cmd.AddCommand(sub)
	}

	var year, limit int
	compare := &cobra.Command{
		Use:   "compare <instituteId>",
		Short: "Compare an institute's drives",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runReport(c, root, opts, reporting.Request{
				Kind:  models.ReportComparativeDrives,
				Scope: models.Scope{InstituteID: args[0], Year: year, Limit: limit},
			})
		},
	}
	compare.Flags().IntVar(&year, "year", 0, "only drives opened or created in this year")
	compare.Flags().IntVar(&limit, "limit", 0, "maximum drives to compare")
	cmd.AddCommand(compare)

	return cmd
}

func runReport(cmd *cobra.Command, root *rootOptions, opts *reportOptions, req reporting.Request) error {
	log := logger.NewStructured(root.logLevel, "console")

	store, err := dataset.LoadFileStore(opts.dataset)
	if err != nil {
		return err
	}

	svcOpts := reporting.Options{TrendSeed: opts.seed}
	if opts.at != "" {
		at, err := time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return fmt.Errorf("--at must be an RFC 3339 timestamp: %w", err)
		}
		svcOpts.Clock = func() time.Time { return at }
	}
	if !opts.skipCheck {
		reg, err := registry.LoadRegistry(root.registry)
		if err != nil {
			return err
		}
		if svcOpts.Schemas, err = validation.NewSchemaSet(reg); err != nil {
			return err
		}
	}

	svc := reporting.NewService(dataset.NewLoader(store, opts.timeout, log), log, svcOpts)
	env, err := svc.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

