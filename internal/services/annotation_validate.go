package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
)

// ValidateEntries checks one replace-all batch before anything is written:
// indexes are positive and unique, and every head/cxn reference names a
// sibling index in the same batch or is a sentinel. Every problem is reported.
func ValidateEntries[T any](kind annotation.Kind, rows []*T, fields func(*T) []string) error {
	v := apperrors.NewValidation()
	seen := make(map[int]int, len(rows))
	for i, row := range rows {
		if row == nil {
			v.Add("%s[%d]: entry is empty", kind, i)
			continue
		}
		e, ok := any(row).(annotation.Entry)
		if !ok {
			v.Add("%s[%d]: not an annotation entry", kind, i)
			continue
		}
		idx := e.Position()
		if idx < 1 {
			v.Add("%s[%d]: index %d must be >= 1", kind, i, idx)
		} else if prev, dup := seen[idx]; dup {
			v.Add("%s[%d]: index %d duplicates entry %d", kind, i, idx, prev)
		} else {
			seen[idx] = i
		}
		if fields != nil {
			for _, missing := range fields(row) {
				v.Add("%s[%d]: %s is required", kind, i, missing)
			}
		}
	}

	for i, row := range rows {
		if row == nil {
			continue
		}
		le, ok := any(row).(annotation.LinkedEntry)
		if !ok {
			continue
		}
		ref := strings.TrimSpace(le.Reference())
		if annotation.IsSentinel(strings.ToLower(ref)) {
			continue
		}
		target, err := strconv.Atoi(ref)
		if err != nil {
			v.Add("%s[%d]: reference %q is not an index", kind, i, ref)
			continue
		}
		if target == le.Position() {
			v.Add("%s[%d]: index %d references itself", kind, i, target)
			continue
		}
		if _, ok := seen[target]; !ok {
			v.Add("%s[%d]: reference %d does not resolve to an entry", kind, i, target)
		}
	}
	return v.OrNil()
}

// sortByIndex orders rows by their entry index.
func sortByIndex[T any](rows []*T) {
	sort.SliceStable(rows, func(i, j int) bool {
		return any(rows[i]).(annotation.Entry).Position() < any(rows[j]).(annotation.Entry).Position()
	})
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
