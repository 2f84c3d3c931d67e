package recommend

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/optiview/internal/model"
)

// ValidatePrefs checks every field of a view's preferences.
func ValidatePrefs(p model.ViewPrefs) error {
	if _, err := ParseSortKey(p.SortBy); err != nil {
		return err
	}
	if _, err := model.ParseKind(string(p.Kind)); err != nil {
		return err
	}
	for _, v := range p.Severities {
		if v.Rank() == 0 {
			return fmt.Errorf("unknown severity %q", v)
		}
	}
	for _, v := range p.Statuses {
		if !slices.Contains(model.Statuses, v) {
			return fmt.Errorf("unknown status %q", v)
		}
	}
	if p.PageSize < 0 {
		return fmt.Errorf("pageSize must be >= 0")
	}
	return nil
}
