package cli

import (
	"errors"
	"fmt"
	"quest/src/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedOpts repository.SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with random goals, tasks and completions",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Goals, "goals", 25, "number of goals to create")
	seedCmd.Flags().IntVar(&seedOpts.TasksPerGoal, "tasks", 8, "tasks per goal")
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 20, "number of users working on the tasks")
	seedCmd.Flags().Float64Var(&seedOpts.DoneRatio, "done-ratio", 0.4, "chance that a user finished a task")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedOpts.DoneRatio < 0 || seedOpts.DoneRatio > 1 {
		return errors.New("--done-ratio must be between 0 and 1")
	}

	logger, cleanup := bootstrap()
	defer cleanup()

	res, err := repository.SeedDemoData(cmd.Context(), seedOpts)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	logger.Info("Demo data inserted",
		zap.Int("goals", res.Goals),
		zap.Int("tasks", res.Tasks),
		zap.Int("statuses", res.Statuses),
	)
	return nil
}
