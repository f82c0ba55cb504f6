package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fiscal-auditor/adminctl/internal/format"
	"github.com/fiscal-auditor/adminctl/internal/notify"
)

var errNoActivity = errors.New("activity log unavailable (see audit.path)")

func activityCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the local log of remote actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if store == nil {
				return errNoActivity
			}
			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.At.In(loc).Format(format.DateLayout),
					e.Action,
					strconv.Itoa(e.TargetID),
					yesNo(e.OK),
					e.Message,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Quando", "Ação", "Alvo", "OK", "Mensagem"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	cmd.AddCommand(activityPruneCmd())
	return cmd
}

func activityPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete activity entries older than a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if store == nil {
				return errNoActivity
			}
			n, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			stderrNotifier().Notify(fmt.Sprintf("%d registros removidos", n), notify.Info)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age cutoff")
	return cmd
}
