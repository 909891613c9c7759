package annotation

// Kind names one of the five sub-annotation collections of a USR.
type Kind string

const (
	KindLexical        Kind = "lexical"
	KindDependency     Kind = "dependency"
	KindDiscourseCoref Kind = "discourse_coref"
	KindConstruction   Kind = "construction"
	KindSentenceType   Kind = "sentence_type"
)

var Kinds = []Kind{KindLexical, KindDependency, KindDiscourseCoref, KindConstruction, KindSentenceType}

// Reference sentinels meaning "no head".
var headSentinels = map[string]bool{
	"":     true,
	"0":    true,
	"-":    true,
	"root": true,
}

// IsSentinel reports whether ref means "no head" rather than a sibling index.
func IsSentinel(ref string) bool { return headSentinels[ref] }

// Entry is implemented by every sub-annotation row.
type Entry interface {
	Position() int
	SetUSR(usrID uint)
}

// LinkedEntry is an entry that points at a sibling entry's index.
type LinkedEntry interface {
	Entry
	Reference() string
}
