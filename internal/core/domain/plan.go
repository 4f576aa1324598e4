package domain

import "time"

// Task is a scheduled unit of work. Every task belongs to exactly one phase.
type Task struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Notes        string    `json:"notes,omitempty"`
	Priority     Priority  `json:"priority"`
	DurationDays int       `json:"duration_days"`
	Start        time.Time `json:"start"`
	Finish       time.Time `json:"finish"`
	// Predecessor is the ID of the task this one follows, 0 when independent.
	Predecessor  int `json:"predecessor,omitempty"`
	OutlineLevel int `json:"outline_level"`
}

type Phase struct {
	Name   string    `json:"name"`
	Kind   PhaseKind `json:"kind"`
	Order  int       `json:"order"`
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
	Tasks  []Task    `json:"tasks"`
}

// Plan is the final ordered structure of phases and tasks built from one
// document. Fallback reports whether the generic phase template was used
// because the text carried no recognizable stage structure.
type Plan struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	ProjectName string    `json:"project_name"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	Finish      time.Time `json:"finish"`
	TotalDays   int       `json:"total_days"`
	Fallback    bool      `json:"fallback"`
	Confidence  float64   `json:"confidence"`
	Phases      []Phase   `json:"phases"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Plan) TaskCount() int {
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.Tasks)
	}
	return n
}

// Shift moves every date in the plan so the plan starts at newStart,
// preserving all durations and offsets.
func (p *Plan) Shift(newStart time.Time) {
	delta := newStart.Sub(p.StartDate)
	if delta == 0 {
		return
	}
	p.StartDate = p.StartDate.Add(delta)
	p.Finish = p.Finish.Add(delta)
	for i := range p.Phases {
		p.Phases[i].Start = p.Phases[i].Start.Add(delta)
		p.Phases[i].Finish = p.Phases[i].Finish.Add(delta)
		for j := range p.Phases[i].Tasks {
			p.Phases[i].Tasks[j].Start = p.Phases[i].Tasks[j].Start.Add(delta)
			p.Phases[i].Tasks[j].Finish = p.Phases[i].Tasks[j].Finish.Add(delta)
		}
	}
}
