package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/infrastructure/resilience"
)

// Projector mirrors finished plans into Neo4j so dependency chains can be
// queried across projects. Projection is additive: rebuilding a plan rewrites
// its subgraph under the same plan node.
type Projector struct {
	driver   neo4j.DriverWithContext
	executor *resilience.Executor
}

func New(ctx context.Context, uri, user, password string, executor *resilience.Executor) (*Projector, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Projector{driver: driver, executor: executor}, nil
}

func (p *Projector) Close(ctx context.Context) error {
	return p.driver.Close(ctx)
}

func (p *Projector) ProjectPlan(ctx context.Context, plan *domain.Plan) error {
	call := func(callCtx context.Context) error {
		return p.project(callCtx, plan)
	}
	if p.executor != nil {
		return p.executor.Execute(ctx, "graph.project", call, classifyNeo4jError)
	}
	return call(ctx)
}

func (p *Projector) project(ctx context.Context, plan *domain.Plan) error {
	session := p.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `
MERGE (p:Plan {id: $id})
SET p.project_name = $project_name, p.document_id = $document_id, p.total_days = $total_days
WITH p
OPTIONAL MATCH (p)-[:HAS_PHASE]->(ph:Phase)
OPTIONAL MATCH (ph)-[:HAS_TASK]->(t:Task)
DETACH DELETE ph, t
`, map[string]any{
			"id":           plan.ID,
			"project_name": plan.ProjectName,
			"document_id":  plan.DocumentID,
			"total_days":   plan.TotalDays,
		}); err != nil {
			return nil, fmt.Errorf("merge plan node: %w", err)
		}

		taskKeys := map[int]string{}
		for _, phase := range plan.Phases {
			phaseKey := fmt.Sprintf("%s/%d", plan.ID, phase.Order)
			if _, err := tx.Run(ctx, `
MATCH (p:Plan {id: $plan_id})
CREATE (ph:Phase {key: $key, name: $name, kind: $kind, ord: $ord})
CREATE (p)-[:HAS_PHASE]->(ph)
`, map[string]any{
				"plan_id": plan.ID,
				"key":     phaseKey,
				"name":    phase.Name,
				"kind":    string(phase.Kind),
				"ord":     phase.Order,
			}); err != nil {
				return nil, fmt.Errorf("create phase node: %w", err)
			}

			for _, task := range phase.Tasks {
				taskKey := fmt.Sprintf("%s/%d", plan.ID, task.ID)
				taskKeys[task.ID] = taskKey
				if _, err := tx.Run(ctx, `
MATCH (ph:Phase {key: $phase_key})
CREATE (t:Task {key: $key, name: $name, priority: $priority, duration_days: $duration_days})
CREATE (ph)-[:HAS_TASK]->(t)
`, map[string]any{
					"phase_key":     phaseKey,
					"key":           taskKey,
					"name":          task.Name,
					"priority":      string(task.Priority),
					"duration_days": task.DurationDays,
				}); err != nil {
					return nil, fmt.Errorf("create task node: %w", err)
				}
			}
		}

		for _, phase := range plan.Phases {
			for _, task := range phase.Tasks {
				if task.Predecessor == 0 {
					continue
				}
				predKey, ok := taskKeys[task.Predecessor]
				if !ok {
					continue
				}
				if _, err := tx.Run(ctx, `
MATCH (t:Task {key: $key}), (pred:Task {key: $pred_key})
CREATE (t)-[:DEPENDS_ON]->(pred)
`, map[string]any{
					"key":      taskKeys[task.ID],
					"pred_key": predKey,
				}); err != nil {
					return nil, fmt.Errorf("create dependency edge: %w", err)
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("project plan %s: %w", plan.ID, err)
	}
	return nil
}
