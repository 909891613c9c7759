package assignment

type Subtask string

const (
	SubtaskLexical      Subtask = "lexical"
	SubtaskConstruction Subtask = "construction"
	SubtaskDependency   Subtask = "dependency"
	SubtaskDiscourse    Subtask = "discourse"
)

// Subtasks is the set of annotation layers an assignment covers.
type Subtasks struct {
	Lexical      bool `json:"lexical"`
	Construction bool `json:"construction"`
	Dependency   bool `json:"dependency"`
	Discourse    bool `json:"discourse"`
}

func SubtasksOf(list ...Subtask) Subtasks {
	var s Subtasks
	for _, t := range list {
		switch t {
		case SubtaskLexical:
			s.Lexical = true
		case SubtaskConstruction:
			s.Construction = true
		case SubtaskDependency:
			s.Dependency = true
		case SubtaskDiscourse:
			s.Discourse = true
		}
	}
	return s
}

func (s Subtasks) List() []Subtask {
	out := make([]Subtask, 0, 4)
	if s.Lexical {
		out = append(out, SubtaskLexical)
	}
	if s.Construction {
		out = append(out, SubtaskConstruction)
	}
	if s.Dependency {
		out = append(out, SubtaskDependency)
	}
	if s.Discourse {
		out = append(out, SubtaskDiscourse)
	}
	return out
}

func (s Subtasks) Any() bool { return s.Lexical || s.Construction || s.Dependency || s.Discourse }

func (s Subtasks) Overlaps(o Subtasks) bool {
	return (s.Lexical && o.Lexical) ||
		(s.Construction && o.Construction) ||
		(s.Dependency && o.Dependency) ||
		(s.Discourse && o.Discourse)
}

func (s Subtasks) Union(o Subtasks) Subtasks {
	return Subtasks{
		Lexical:      s.Lexical || o.Lexical,
		Construction: s.Construction || o.Construction,
		Dependency:   s.Dependency || o.Dependency,
		Discourse:    s.Discourse || o.Discourse,
	}
}

// Minus returns the subtasks in s that are not in o.
func (s Subtasks) Minus(o Subtasks) Subtasks {
	return Subtasks{
		Lexical:      s.Lexical && !o.Lexical,
		Construction: s.Construction && !o.Construction,
		Dependency:   s.Dependency && !o.Dependency,
		Discourse:    s.Discourse && !o.Discourse,
	}
}
