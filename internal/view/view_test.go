package view

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
)

func renderPage(t *testing.T, data PageData) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, data))
	return buf.String()
}

func TestRender_BusViews(t *testing.T) {
	tests := []struct {
		view    state.View
		want    []string
		notWant []string
	}{
		{
			view:    state.ViewLogin,
			want:    []string{"Welcome Back", `action="/bus/login"`, `href="/bus?view=subscribe"`},
			notWant: []string{"Welcome Aboard", "Set Your Frequency"},
		},
		{
			view:    state.ViewSubscribe,
			want:    []string{"Get On The Bus", `action="/bus/checkout"`, "Subscribe - $10/month"},
			notWant: []string{"Welcome Back"},
		},
		{
			view:    state.ViewBirthData,
			want:    []string{"Set Your Frequency", `name="birth_time"`, `name="birth_location"`, "Save &amp; Get Reading"},
			notWant: []string{"Get On The Bus"},
		},
		{
			view:    state.ViewDashboard,
			want:    []string{"Welcome Aboard", "rider@bus.com", `action="/bus/portal"`, `action="/bus/logout"`, "Consulting the oracle..."},
			notWant: []string{"Welcome Back"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			out := renderPage(t, PageData{Page: PageBus, View: tt.view, Email: "rider@bus.com"})
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRender_SubscribePrefillsEmail(t *testing.T) {
	out := renderPage(t, PageData{Page: PageBus, View: state.ViewSubscribe, Email: "rider@bus.com"})
	assert.Contains(t, out, `value="rider@bus.com"`)
}

func TestRender_ReadingCard(t *testing.T) {
	out := renderPage(t, PageData{
		Page: PageAsk,
		Reading: &models.Reading{
			Quote:          "Everything is broken",
			QuoteDate:      "1989-05-22",
			Similarity:     0.876,
			Interpretation: "line1\nline2",
		},
	})

	assert.Contains(t, out, "Everything is broken")
	assert.Contains(t, out, "Written 1989-05-22")
	assert.Contains(t, out, "88% resonance")
	assert.Contains(t, out, `class="interpretation"`)
	assert.Contains(t, out, "line1<br>")
	assert.Contains(t, out, "line2")
}

func TestRender_EmptyInterpretationOmitted(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		out := renderPage(t, PageData{
			Page:    PageAsk,
			Reading: &models.Reading{Quote: "q", QuoteDate: "d", Similarity: 0.5, Interpretation: text},
		})
		assert.Contains(t, out, "50% resonance")
		assert.NotContains(t, out, `class="interpretation"`)
	}
}

func TestRender_EscapesDynamicText(t *testing.T) {
	out := renderPage(t, PageData{
		Page:  PageBus,
		View:  state.ViewDashboard,
		Email: `<b>bold</b>@bus.com`,
		Reading: &models.Reading{
			Quote:          `<script>alert("quote")</script>`,
			QuoteDate:      "today",
			Interpretation: `<script>alert("interp")</script>`,
			Conditions: &models.Conditions{
				ConditionsLabel: `<img src=x onerror=alert(1)>`,
				OperatingMode:   "cruise",
			},
		},
	})

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>bold</b>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;@bus.com")
}

func TestRender_ConditionsGrid(t *testing.T) {
	out := renderPage(t, PageData{
		Page: PageBus,
		View: state.ViewDashboard,
		Conditions: &models.Conditions{
			H5Gain:          1.5,
			H7Gain:          0.333,
			H10Gain:         2,
			ConditionsLabel: "Tailwind",
			OperatingMode:   "Expansive",
		},
	})

	assert.Contains(t, out, "Today's Transmission Conditions")
	assert.Contains(t, out, "1.50x")
	assert.Contains(t, out, "0.33x")
	assert.Contains(t, out, "2.00x")
	assert.Contains(t, out, "Tailwind")
	assert.Contains(t, out, "Expansive")
}

func TestRender_ErrorReplacesResult(t *testing.T) {
	out := renderPage(t, PageData{
		Page:       PageBus,
		View:       state.ViewDashboard,
		Error:      "Error getting reading.",
		Conditions: &models.Conditions{ConditionsLabel: "Tailwind"},
	})

	assert.Contains(t, out, `<div class="error-message">Error getting reading.</div>`)
	assert.NotContains(t, out, "Tailwind")
}

func TestRender_AccountErrorKeepsConditions(t *testing.T) {
	out := renderPage(t, PageData{
		Page:         PageBus,
		View:         state.ViewDashboard,
		AccountError: "Error opening portal",
		Conditions:   &models.Conditions{ConditionsLabel: "Tailwind"},
	})

	assert.Contains(t, out, `<div class="error-message">Error opening portal</div>`)
	assert.Contains(t, out, "Tailwind")
}

func TestRender_BirthFormKeepsValues(t *testing.T) {
	out := renderPage(t, PageData{
		Page: PageBus,
		View: state.ViewBirthData,
		Birth: BirthForm{
			Name:     `Ken "Intrepid"`,
			Year:     "1935",
			Month:    "9",
			Day:      "17",
			Time:     "07:30",
			Location: "La Junta, Colorado",
		},
	})

	assert.Contains(t, out, `name="name" value="Ken &#34;Intrepid&#34;"`)
	assert.Contains(t, out, `name="birth_year" value="1935"`)
	assert.Contains(t, out, `name="birth_month" value="9"`)
	assert.Contains(t, out, `name="birth_day" value="17"`)
	assert.Contains(t, out, `name="birth_time" value="07:30"`)
	assert.Contains(t, out, `name="birth_location" value="La Junta, Colorado"`)
}

func TestRender_CSRFFieldInEveryForm(t *testing.T) {
	field := `<input type="hidden" name="gorilla.csrf.Token" value="tok">`
	out := renderPage(t, PageData{Page: PageBus, View: state.ViewDashboard, CSRFField: template.HTML(field)})
	assert.Equal(t, 3, strings.Count(out, "<form"))
	assert.Equal(t, 3, strings.Count(out, field))
}

func TestRender_Unavailable(t *testing.T) {
	out := renderPage(t, PageData{
		Page:        PageBus,
		View:        state.ViewDashboard,
		Email:       "rider@bus.com",
		Error:       "Could not verify subscription. Please try again.",
		Unavailable: true,
	})

	assert.Contains(t, out, "Could not verify subscription. Please try again.")
	assert.NotContains(t, out, "Welcome Aboard")
	assert.NotContains(t, out, "<form")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	err = r.Render(&bytes.Buffer{}, PageData{Page: Page(9)})
	require.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 100, percent(0.996))
	assert.Equal(t, 0, percent(0))
	assert.Equal(t, "1.23x", gain(1.234))
	assert.True(t, blank(" \n"))
	assert.False(t, blank("x"))
}
