package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/trend"
)

func TestByName(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, "flexoki-dark", ByName("nope").Name)
	assert.True(t, Valid("terminal"))
	assert.False(t, Valid("solarized"))
	assert.Equal(t, []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}, Names())
}

func TestBaselineRoles(t *testing.T) {
	for _, th := range All {
		assert.Equal(t, th.Red, th.ForStyle(trend.StyleAbove), th.Name)
		assert.Equal(t, th.Green, th.ForStyle(trend.StyleBelow), th.Name)
		assert.Equal(t, th.TextPrimary, th.ForStyle(trend.StyleNeutral), th.Name)
	}
}

func TestForSeverity(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Red, th.ForSeverity(model.SeverityCritical))
	assert.Equal(t, th.Blue, th.ForSeverity(model.SeverityLow))
}

func TestSetActive(t *testing.T) {
	prev := Active
	t.Cleanup(func() { Active = prev })

	SetActive("catppuccin-mocha")
	assert.Equal(t, CatppuccinMocha, Active)
}
