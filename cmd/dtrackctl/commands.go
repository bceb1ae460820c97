package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/dtrack/internal/adapters/grpc/service"
	"github.com/ogurasousui/dtrack/internal/core/daterange"
)

type rootOptions struct {
	addr    string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dtrackctl",
		Short:         "Inspect date ranges and the current employee of a dtrack server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:50051", "gRPC server address")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token sent as authorization metadata")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")

	root.AddCommand(
		newGranularitiesCmd(),
		newRangeCmd(),
		newRangesCmd(opts),
		newStepCmd(opts),
		newWhoamiCmd(opts),
	)
	return root
}

func newGranularitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "granularities",
		Short: "List the supported granularities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, g := range daterange.Granularities() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", g, g.Label())
			}
			return nil
		},
	}
}

func newRangeCmd() *cobra.Command {
	var granularity, date string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Compute the range containing a date (locally, no server needed)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := daterange.ComputeInput{Granularity: granularity}
			if date != "" {
				d, err := daterange.ParseDate(date)
				if err != nil {
					return err
				}
				in.Date = &d
			}

			opt, err := daterange.NewService(nil, nil).Compute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOption(cmd.OutOrStdout(), opt.Label, opt.Value)
			return nil
		},
	}
	cmd.Flags().StringVar(&granularity, "granularity", string(daterange.GranularityWeek), "day, week, month or year")
	cmd.Flags().StringVar(&date, "date", "", "reference date YYYY-MM-DD (defaults to today)")
	return cmd
}

func newRangesCmd(opts *rootOptions) *cobra.Command {
	var (
		granularity string
		filter      filterFlags
	)

	cmd := &cobra.Command{
		Use:   "ranges",
		Short: "List ranges that have recorded activity, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withConn(cmd.Context(), func(ctx context.Context, conn *grpc.ClientConn) error {
				in, err := structpb.NewStruct(map[string]any{
					"granularity": granularity,
					"filter":      filter.fields(cmd),
				})
				if err != nil {
					return err
				}
				resp, err := service.NewDateRangeClient(conn).ListRanges(ctx, in)
				if err != nil {
					return err
				}
				for _, item := range resp.GetFields()["options"].GetListValue().GetValues() {
					fields := item.GetStructValue().GetFields()
					printOption(cmd.OutOrStdout(), fields["label"].GetStringValue(), fields["value"].GetStringValue())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&granularity, "granularity", string(daterange.GranularityWeek), "day, week, month or year")
	filter.register(cmd)
	return cmd
}

func newStepCmd(opts *rootOptions) *cobra.Command {
	var (
		granularity, current, direction string
		filter                          filterFlags
	)

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Move from the current range to the previous (newer) or next (older) one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withConn(cmd.Context(), func(ctx context.Context, conn *grpc.ClientConn) error {
				in, err := structpb.NewStruct(map[string]any{
					"granularity": granularity,
					"current":     current,
					"direction":   direction,
					"filter":      filter.fields(cmd),
				})
				if err != nil {
					return err
				}
				resp, err := service.NewDateRangeClient(conn).StepRange(ctx, in)
				if err != nil {
					return err
				}
				fields := resp.GetFields()
				printOption(cmd.OutOrStdout(), fields["label"].GetStringValue(), fields["value"].GetStringValue())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&granularity, "granularity", string(daterange.GranularityWeek), "day, week, month or year")
	cmd.Flags().StringVar(&current, "current", "", "current range value, e.g. [2024-03-01,2024-04-01)")
	cmd.Flags().StringVar(&direction, "direction", string(daterange.DirectionNext), "previous or next")
	filter.register(cmd)
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Resolve the employee behind the token, onboarding it if needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withConn(cmd.Context(), func(ctx context.Context, conn *grpc.ClientConn) error {
				resp, err := service.NewProfileClient(conn).GetCurrentEmployee(ctx)
				if err != nil {
					return err
				}
				fields := resp.GetFields()
				fmt.Fprintf(cmd.OutOrStdout(), "id:    %d\nname:  %s\n", int64(fields["id"].GetNumberValue()), fields["full_name"].GetStringValue())
				for _, role := range fields["roles"].GetListValue().GetValues() {
					fmt.Fprintf(cmd.OutOrStdout(), "role:  %s\n", role.GetStringValue())
				}
				if fields["manager"].GetBoolValue() {
					fmt.Fprintln(cmd.OutOrStdout(), "scope: all employees")
				}
				return nil
			})
		},
	}
}

func (o *rootOptions) withConn(ctx context.Context, fn func(context.Context, *grpc.ClientConn) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := grpc.NewClient(o.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect %s: %w", o.addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if o.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+o.token)
	}

	return fn(ctx, conn)
}

// filterFlags は実績期間の絞り込み条件を受け取るフラグです。
type filterFlags struct {
	users    []int64
	aow      int64
	project  int64
	activity int64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64SliceVar(&f.users, "user", nil, "restrict to these employee ids (repeatable)")
	cmd.Flags().Int64Var(&f.aow, "aow", 0, "restrict to an area of work")
	cmd.Flags().Int64Var(&f.project, "project", 0, "restrict to a project")
	cmd.Flags().Int64Var(&f.activity, "activity", 0, "restrict to an activity")
}

func (f *filterFlags) fields(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	if len(f.users) > 0 {
		ids := make([]any, len(f.users))
		for i, id := range f.users {
			ids[i] = id
		}
		out["user_ids"] = ids
	}
	if cmd.Flags().Changed("aow") {
		out["aow_id"] = f.aow
	}
	if cmd.Flags().Changed("project") {
		out["project_id"] = f.project
	}
	if cmd.Flags().Changed("activity") {
		out["activity_id"] = f.activity
	}
	return out
}

func printOption(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-40s %s\n", label, value)
}
