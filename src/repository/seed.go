package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"quest/src/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type SeedOptions struct {
	Goals        int
	TasksPerGoal int
	Users        int
	// probability that a seeded user has finished a given task
	DoneRatio float64
	Rand      *rand.Rand
}

type SeedResult struct {
	Goals    int
	Tasks    int
	Statuses int
}

var goalTopics = []string{
	"Learn Go", "Run a marathon", "Read the classics", "Master SQL", "Grow tomatoes",
	"Speak Spanish", "Write a novel", "Bake sourdough", "Climb Kilimanjaro", "Learn the cello",
}

// SeedDemoData fills the goal tables with random data so the dashboards have
// something to rank. Everything is inserted in one transaction.
func SeedDemoData(ctx context.Context, opts SeedOptions) (res SeedResult, err error) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	tx, err := StartTx(ctx)
	if err != nil {
		return res, err
	}
	defer tx.Rollback(ctx)

	userIDs := make([]uuid.UUID, 0, opts.Users)
	for i := range opts.Users {
		var id uuid.UUID
		username := fmt.Sprintf("seed-%s", uuid.NewString()[:8])
		err = tx.QueryRow(ctx,
			"INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id",
			username, "!", // unusable password, seeded users never log in
		).Scan(&id)
		if err != nil {
			return res, fmt.Errorf("inserting seed user %d: %w", i, err)
		}
		userIDs = append(userIDs, id)
	}

	for i := range opts.Goals {
		name := fmt.Sprintf("%s #%d", goalTopics[i%len(goalTopics)], i+1)
		goalSlug := slug.Make(name) + "-" + uuid.NewString()[:8]

		var goalID uuid.UUID
		err = tx.QueryRow(ctx,
			"INSERT INTO goals (name, slug, description) VALUES ($1, $2, $3) RETURNING id",
			name, goalSlug, "Seeded demo goal",
		).Scan(&goalID)
		if err != nil {
			return res, fmt.Errorf("inserting goal %q: %w", name, err)
		}
		res.Goals++

		for j := range opts.TasksPerGoal {
			var taskID uuid.UUID
			err = tx.QueryRow(ctx,
				"INSERT INTO tasks (goal_id, name) VALUES ($1, $2) RETURNING id",
				goalID, fmt.Sprintf("Step %d", j+1),
			).Scan(&taskID)
			if err != nil {
				return res, fmt.Errorf("inserting task for goal %q: %w", name, err)
			}
			res.Tasks++

			for _, userID := range userIDs {
				status := models.StatusStarted
				if rng.Float64() < opts.DoneRatio {
					status = models.StatusDone
				} else if rng.IntN(2) == 0 {
					// never started
					continue
				}

				_, err = tx.Exec(ctx,
					"INSERT INTO task_statuses (task_id, user_id, status) VALUES ($1, $2, $3)",
					taskID, userID, status,
				)
				if err != nil {
					return res, fmt.Errorf("inserting task status: %w", err)
				}
				res.Statuses++
			}
		}
	}

	err = tx.Commit(ctx)
	return res, err
}
