package rows

import "strings"

type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindInteger
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// Column declares a canonical column name, its type and the legacy header names
// that should resolve to it.
type Column struct {
	Name    string
	Kind    Kind
	Aliases []string
}

type Schema struct {
	columns map[string]Column
	// lower-cased alias (or canonical name) -> canonical name
	aliases map[string]string
}

func NewSchema(columns ...Column) *Schema {
	s := &Schema{
		columns: make(map[string]Column, len(columns)),
		aliases: make(map[string]string),
	}
	for _, c := range columns {
		s.columns[c.Name] = c
		s.aliases[aliasKey(c.Name)] = c.Name
		for _, a := range c.Aliases {
			s.aliases[aliasKey(a)] = c.Name
		}
	}
	return s
}

// Canonical resolves a header name to its canonical column name. Headers the
// schema does not know keep their trimmed text.
func (s *Schema) Canonical(header string) string {
	if s == nil {
		return strings.TrimSpace(header)
	}
	if name, ok := s.aliases[aliasKey(header)]; ok {
		return name
	}
	return strings.TrimSpace(header)
}

func (s *Schema) Kind(canonical string) Kind {
	if s == nil {
		return KindText
	}
	if c, ok := s.columns[canonical]; ok {
		return c.Kind
	}
	return KindText
}

func aliasKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// canonical column names shared by the activity and weight sheets
const (
	ColTimestamp       = "timestamp"
	ColExerciseType    = "exerciseType"
	ColDurationMinutes = "durationMinutes"
	ColDistanceMiles   = "distanceMiles"
	ColReps            = "reps"
	ColUser            = "user"
	ColCurrentWeight   = "currentWeight"
	ColTargetWeight    = "targetWeight"
	ColTargetDate      = "targetDate"
	ColDayOfWeek       = "dayOfWeek"
	ColType            = "type"
	ColQuote           = "quote"
	ColAuthor          = "author"
	ColNumber          = "number"
)

// ActivitySchema describes the activity log sheet, including the header names
// older versions of the entry form produced.
func ActivitySchema() *Schema {
	return NewSchema(
		Column{Name: ColTimestamp, Kind: KindTimestamp, Aliases: []string{"Timestamp", "Date"}},
		Column{Name: ColExerciseType, Kind: KindText, Aliases: []string{"Exercise Type", "Exercise"}},
		Column{Name: ColDurationMinutes, Kind: KindNumber, Aliases: []string{"Duration", "Duration (minutes)"}},
		Column{Name: ColDistanceMiles, Kind: KindNumber, Aliases: []string{"Optional: Distance (miles)", "Distance in Miles", "Distance"}},
		Column{Name: ColReps, Kind: KindInteger, Aliases: []string{"Optional: Strength: Reps", "Reps"}},
		Column{Name: ColUser, Kind: KindText, Aliases: []string{"User", "Person"}},
	)
}

func WeightSchema() *Schema {
	return NewSchema(
		Column{Name: ColTimestamp, Kind: KindTimestamp, Aliases: []string{"Timestamp"}},
		Column{Name: ColCurrentWeight, Kind: KindNumber, Aliases: []string{"Current Weight", "Weight"}},
		Column{Name: ColUser, Kind: KindText, Aliases: []string{"User"}},
	)
}

func TargetSchema() *Schema {
	return NewSchema(
		Column{Name: ColTimestamp, Kind: KindTimestamp, Aliases: []string{"Timestamp"}},
		Column{Name: ColUser, Kind: KindText, Aliases: []string{"User"}},
		Column{Name: ColTargetWeight, Kind: KindNumber, Aliases: []string{"Target Weight"}},
		Column{Name: ColTargetDate, Kind: KindTimestamp, Aliases: []string{"Target Date"}},
	)
}

func RegimeSchema() *Schema {
	return NewSchema(
		Column{Name: ColDayOfWeek, Kind: KindText, Aliases: []string{"Day of Week", "Day"}},
		Column{Name: ColType, Kind: KindText, Aliases: []string{"Type", "Exercise Type"}},
	)
}

func QuotesSchema() *Schema {
	return NewSchema(
		Column{Name: ColNumber, Kind: KindInteger, Aliases: []string{"Number"}},
		Column{Name: ColQuote, Kind: KindText, Aliases: []string{"Quote"}},
		Column{Name: ColAuthor, Kind: KindText, Aliases: []string{"Author"}},
	)
}

func UsersSchema() *Schema {
	return NewSchema(
		Column{Name: ColUser, Kind: KindText, Aliases: []string{"User", "Users", "App Users", "Name"}},
	)
}
