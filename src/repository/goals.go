package repository

import (
	"context"
	"fmt"
	"quest/src/models"

	"github.com/google/uuid"
)

// Goals in insertion order. Both dashboard variants break ties on
// completed_tasks with the same (created_at, id) order so they agree.
const fetchGoalsSql = `
SELECT id, name, slug, description, is_public, created_at, updated_at
FROM goals
ORDER BY created_at, id
`

// Done task statuses of one goal, looked up through its task ids.
const countCompletedTasksSql = `
SELECT COUNT(*)
FROM task_statuses
WHERE status = $1 AND task_id IN (
	SELECT id FROM tasks WHERE goal_id = $2
)
`

// Correlated scalar subquery evaluated once per outer goal row g.
// A goal without done statuses yields no row, hence the COALESCE.
const completedTasksSubquery = `
COALESCE((
	SELECT COUNT(ts.id)
	FROM task_statuses ts
	JOIN tasks t ON t.id = ts.task_id
	WHERE t.goal_id = g.id AND ts.status = 'done'
), 0)
`

var fetchTopGoalsSql = fmt.Sprintf(`
SELECT
	g.id, g.name, g.slug, g.description, g.is_public, g.created_at, g.updated_at,
	%s AS completed_tasks
FROM goals g
ORDER BY completed_tasks DESC, g.created_at, g.id
LIMIT $1
`, completedTasksSubquery)

var averageCompletionsSql = fmt.Sprintf(`
SELECT COALESCE(AVG(annotated.completed_tasks), 0)::float8
FROM (
	SELECT %s AS completed_tasks
	FROM goals g
) AS annotated
`, completedTasksSubquery)

func FetchGoals(ctx context.Context) ([]models.Goal, error) {
	goals, err := rowsToStruct[models.Goal](ctx, db, fetchGoalsSql)
	if err != nil {
		return nil, fmt.Errorf("fetching goals: %w", err)
	}
	return goals, nil
}

func CountCompletedTasks(ctx context.Context, goalID uuid.UUID) (count int, err error) {
	err = db.QueryRow(ctx, countCompletedTasksSql, models.StatusDone, goalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting completed tasks of goal %s: %w", goalID, err)
	}
	return count, nil
}

// FetchGoalsCountedInApp annotates every goal with one extra query per goal.
// This is the slow path kept for comparison with FetchTopGoalsByCompletions:
// it costs a round trip per goal and reads nothing under a shared snapshot,
// so concurrent writes can make the counts disagree with each other.
func FetchGoalsCountedInApp(ctx context.Context) (annotated []models.GoalWithCompletions, queries int, err error) {
	goals, err := FetchGoals(ctx)
	if err != nil {
		return nil, 1, err
	}
	queries = 1

	annotated = make([]models.GoalWithCompletions, len(goals))
	for i, g := range goals {
		count, err := CountCompletedTasks(ctx, g.Id)
		queries++
		if err != nil {
			return nil, queries, err
		}
		annotated[i] = models.GoalWithCompletions{Goal: g, CompletedTasks: count}
	}

	return annotated, queries, nil
}

// FetchTopGoalsByCompletions lets the database count, sort and limit.
func FetchTopGoalsByCompletions(ctx context.Context, limit int) ([]models.GoalWithCompletions, error) {
	goals, err := rowsToStruct[models.GoalWithCompletions](ctx, db, fetchTopGoalsSql, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching top goals: %w", err)
	}
	return goals, nil
}

// FetchAverageCompletions averages completed tasks over all goals, 0 when there are none.
func FetchAverageCompletions(ctx context.Context) (avg float64, err error) {
	err = db.QueryRow(ctx, averageCompletionsSql).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("averaging completed tasks: %w", err)
	}
	return avg, nil
}
