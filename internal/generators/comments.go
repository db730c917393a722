package generators

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"seedforge/internal/content"
	"seedforge/internal/distribution"
	"seedforge/internal/registry"
)

type commentStage struct{}

func (commentStage) Name() string { return "comments" }

type pendingComment struct {
	taskID    int64
	authorID  int64
	createdAt time.Time
	textCtx   content.TextContext
}

func (commentStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	// Derive every comment row up front so author picks and timestamps stay
	// on the deterministic sampling path, then fetch the bodies in one
	// concurrent batch and insert in timestamp order per task.
	var pending []pendingComment

	for _, taskID := range p.Reg.AllOf(registry.Tasks) {
		if !p.Dist.Boolean(p.Dist.Rate(distribution.SparsityComment)) {
			continue
		}

		task := p.tasks[taskID]
		project := p.projects[task.ProjectID]
		count := p.Dist.IntBetween(1, 4)

		var assigneeID int64
		if task.AssigneeID != nil {
			assigneeID = *task.AssigneeID
		}

		// Conversations end once the task closes out, and never run past
		// the end of the simulated window.
		threadEnd := p.Clock.Now()
		if task.CompletedAt != nil && task.CompletedAt.Before(threadEnd) {
			threadEnd = *task.CompletedAt
		}
		if threadEnd.Before(task.CreatedAt) {
			threadEnd = task.CreatedAt
		}

		instants := make([]time.Time, count)
		for i := range instants {
			instants[i] = p.Clock.Between(task.CreatedAt, threadEnd)
		}
		sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

		var priorAuthors []int64
		for i := 0; i < count; i++ {
			authorID, err := p.Sampler.PickCommentAuthor(project.OrganizationID, project.TeamID, assigneeID, priorAuthors)
			if err != nil {
				return fmt.Errorf("task %d: %w", taskID, err)
			}
			priorAuthors = append(priorAuthors, authorID)

			pending = append(pending, pendingComment{
				taskID:    taskID,
				authorID:  authorID,
				createdAt: instants[i],
				textCtx: content.TextContext{
					Department:  project.Department,
					ProjectType: project.ProjectType,
					ProjectName: project.Name,
					TaskName:    task.Name,
					AuthorRole:  p.users[authorID].Role,
				},
			})
		}
	}

	ctxs := make([]content.TextContext, len(pending))
	for i, c := range pending {
		ctxs[i] = c.textCtx
	}
	bodies := content.Prefetch(ctx, p.Content, content.CommentContent, ctxs, p.contentWorkers())

	for i, c := range pending {
		id, err := insertRow(tx, `
			INSERT INTO comments (task_id, author_id, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.taskID, c.authorID, bodies[i], fmtTime(c.createdAt), fmtTime(c.createdAt))
		if err != nil {
			return fmt.Errorf("failed to insert comment on task %d: %w", c.taskID, err)
		}

		b.Register(registry.Comments, id, map[string]int64{registry.ByTask: c.taskID})
	}

	return nil
}
