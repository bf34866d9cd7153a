package renderer

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"lcm/internal/invariant"
	"lcm/internal/renderer/metrics"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

// =============================================================================
// Renderer Test Suite
// =============================================================================
// Renders run against the embedded template set; every successful render must
// satisfy the four-part layout, the last-line rule and the content checks.

type RendererSuite struct {
	suite.Suite
	templates *TemplateSet
	renderer  *Renderer
}

func TestRendererSuite(t *testing.T) {
	suite.Run(t, new(RendererSuite))
}

func (s *RendererSuite) SetupTest() {
	ts, err := DefaultTemplates()
	s.Require().NoError(err)
	s.templates = ts

	r, err := New(ts)
	s.Require().NoError(err)
	s.renderer = r
}

func clothingFacts() []FactItem {
	return []FactItem{{Key: "received_date", KoLabel: "수령일", EnLabel: "Delivery date"}}
}

func twoChoices() []ChoiceItem {
	return []ChoiceItem{
		{ID: "exchange", Title: "교환 절차 안내"},
		{ID: "refund", Title: "환불 절차 안내"},
	}
}

func (s *RendererSuite) assertWellFormed(msg RenderedMessage) {
	s.T().Helper()
	lines := strings.Split(msg.Text, "\n")
	want := s.templates.Copy[msg.Language].WaitPromptFor(msg.StateID)
	s.Equal(want, lines[len(lines)-1], "last line must be the wait prompt")
	s.Len(strings.Split(msg.Text, "\n\n"), 4)
	s.NoError(invariant.Default().Check("rendered text", msg.Text))
}

// =============================================================================
// S1: minimum facts request
// =============================================================================

func (s *RendererSuite) TestFactsRequestKorean() {
	msg, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StateMinFactsRequest,
		CategoryLabel: "의류",
		FactsRequired: clothingFacts(),
	})
	s.Require().NoError(err)

	s.Contains(msg.Text, "의류")
	s.Contains(msg.Text, "• 수령일")
	s.Contains(msg.Text, "실제 환불/반품은 해당 플랫폼에서 직접 진행하셔야 합니다")
	s.Contains(msg.Text, "대신 신청하거나 승인")
	s.Equal(domain.StateMinFactsRequest, msg.StateID)
	s.Equal(domain.LanguageKorean, msg.Language)

	lines := strings.Split(msg.Text, "\n")
	s.Equal("준비되시면 위 정보를 알려주세요.", lines[len(lines)-1])
	s.assertWellFormed(msg)
}

func (s *RendererSuite) TestFactsRequestEnglishUsesEnglishLabels() {
	msg, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageEnglish,
		StateID:       domain.StateMinFactsRequest,
		CategoryLabel: "clothing",
		FactsRequired: clothingFacts(),
	})
	s.Require().NoError(err)

	s.Contains(msg.Text, "• Delivery date")
	s.NotContains(msg.Text, "수령일")
	s.assertWellFormed(msg)
}

func (s *RendererSuite) TestFactsOrderIsPreserved() {
	msg, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StateMinFactsRequest,
		FactsRequired: s.templates.DefaultFacts,
	})
	s.Require().NoError(err)

	body := strings.Split(msg.Parts.Body, "\n")
	s.Require().Len(body, len(s.templates.DefaultFacts)+2)
	for i, f := range s.templates.DefaultFacts {
		s.Equal("• "+f.KoLabel, body[i+1])
	}
}

func (s *RendererSuite) TestEmptyCategoryUsesDefault() {
	msg, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StateMinFactsRequest,
		CategoryLabel: "  ",
		FactsRequired: clothingFacts(),
	})
	s.Require().NoError(err)
	s.Contains(msg.Parts.Declaration, s.templates.Copy[domain.LanguageKorean].DefaultCategory)
}

func (s *RendererSuite) TestEmptyFactsListFails() {
	_, err := s.renderer.Render(RenderRequest{
		Language: domain.LanguageKorean,
		StateID:  domain.StateMinFactsRequest,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrEmptyFactsList))
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *RendererSuite) TestFactWithMissingLabelFails() {
	_, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StateMinFactsRequest,
		FactsRequired: []FactItem{{Key: "received_date", KoLabel: "수령일"}},
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidItem))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// =============================================================================
// S2: present choices
// =============================================================================

func (s *RendererSuite) TestChoiceBound() {
	choices := []ChoiceItem{
		{ID: "a", Title: "교환 절차 안내"},
		{ID: "b", Title: "환불 절차 안내"},
		{ID: "c", Title: "수선 절차 안내"},
		{ID: "d", Title: "상담 채널 안내"},
	}
	for n := 0; n <= len(choices); n++ {
		msg, err := s.renderer.Render(RenderRequest{
			Language: domain.LanguageKorean,
			StateID:  domain.StatePresentChoices,
			Choices:  choices[:n],
		})
		if n == 1 || n == 2 {
			s.Require().NoError(err, "n=%d", n)
			s.assertWellFormed(msg)
			continue
		}
		s.Require().Error(err, "n=%d", n)
		s.True(errors.Is(err, ErrChoiceCountViolation), "n=%d", n)
	}
}

func (s *RendererSuite) TestChoicesAreNumberedFromOne() {
	msg, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StatePresentChoices,
		CategoryLabel: "의류",
		Choices:       twoChoices(),
	})
	s.Require().NoError(err)

	s.Contains(msg.Text, "1. 교환 절차 안내")
	s.Contains(msg.Text, "2. 환불 절차 안내")
	lines := strings.Split(msg.Text, "\n")
	s.Equal("준비되시면 번호(1 또는 2)를 알려주세요.", lines[len(lines)-1])
}

func (s *RendererSuite) TestChoiceWithEmptyTitleFails() {
	_, err := s.renderer.Render(RenderRequest{
		Language: domain.LanguageKorean,
		StateID:  domain.StatePresentChoices,
		Choices:  []ChoiceItem{{ID: "a", Title: " "}},
	})
	s.True(errors.Is(err, ErrInvalidItem))
}

func (s *RendererSuite) TestLeakedTermInChoiceTitleFails() {
	for _, title := range []string{"Gate 2 check", "게이트 확인"} {
		_, err := s.renderer.Render(RenderRequest{
			Language: domain.LanguageKorean,
			StateID:  domain.StatePresentChoices,
			Choices:  []ChoiceItem{{ID: "a", Title: title}},
		})
		s.Require().Error(err, title)
		s.True(errors.Is(err, ErrInvalidItem), title)
		var v *invariant.Violation
		s.False(errors.As(err, &v), "item errors describe the violation without wrapping it")
	}
}

// =============================================================================
// Disclosure
// =============================================================================

func (s *RendererSuite) TestDisclosureOverride() {
	override := "(※ 안내만 가능합니다. 신청은 판매처 고객센터에서 직접 하셔야 합니다.)"
	msg, err := s.renderer.Render(RenderRequest{
		Language:           domain.LanguageKorean,
		StateID:            domain.StateMinFactsRequest,
		FactsRequired:      clothingFacts(),
		DisclosureOverride: override,
	})
	s.Require().NoError(err)

	s.Contains(msg.Parts.Disclosure, override)
	s.Contains(msg.Parts.Disclosure, s.templates.Copy[domain.LanguageKorean].NonNegotiable)
	s.NotContains(msg.Text, s.templates.Copy[domain.LanguageKorean].Disclosure)
	s.assertWellFormed(msg)
}

func (s *RendererSuite) TestDisclosureOverrideLeakFails() {
	_, err := s.renderer.Render(RenderRequest{
		Language:           domain.LanguageEnglish,
		StateID:            domain.StateMinFactsRequest,
		FactsRequired:      clothingFacts(),
		DisclosureOverride: "Passed gate 3, guidance only.",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	var v *invariant.Violation
	s.Require().True(errors.As(err, &v))
	s.Equal(invariant.KindLeakedTerm, v.Kind)
}

// =============================================================================
// Errors and properties
// =============================================================================

func (s *RendererSuite) TestUnsupportedState() {
	_, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StateID("S_ERROR_HANDLING"),
		FactsRequired: clothingFacts(),
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrUnsupportedState))
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedState))
}

func (s *RendererSuite) TestUnknownLanguageIsMissingTemplate() {
	_, err := s.renderer.Render(RenderRequest{
		Language:      domain.Language("fr"),
		StateID:       domain.StateMinFactsRequest,
		FactsRequired: clothingFacts(),
	})
	s.True(errors.Is(err, ErrMissingTemplate))
}

func (s *RendererSuite) TestHedgeInCategoryFails() {
	_, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageEnglish,
		StateID:       domain.StateMinFactsRequest,
		CategoryLabel: "what is usually sold",
		FactsRequired: clothingFacts(),
	})
	s.True(errors.Is(err, ErrInvalidItem))
}

func (s *RendererSuite) TestMultiLineCategoryFails() {
	_, err := s.renderer.Render(RenderRequest{
		Language:      domain.LanguageKorean,
		StateID:       domain.StateMinFactsRequest,
		CategoryLabel: "의류\n\n추가",
		FactsRequired: clothingFacts(),
	})
	s.True(errors.Is(err, ErrInvalidItem))
}

func (s *RendererSuite) TestRenderIsIdempotent() {
	req := RenderRequest{
		Language:      domain.LanguageEnglish,
		StateID:       domain.StatePresentChoices,
		CategoryLabel: "shoes",
		Choices:       []ChoiceItem{{ID: "a", Title: "Exchange steps"}, {ID: "b", Title: "Refund steps"}},
	}
	first, err := s.renderer.Render(req)
	s.Require().NoError(err)
	second, err := s.renderer.Render(req)
	s.Require().NoError(err)

	if diff := cmp.Diff(first, second); diff != "" {
		s.Failf("render not idempotent", "(-first +second):\n%s", diff)
	}
}

func (s *RendererSuite) TestEveryStateAndLanguageIsWellFormed() {
	for _, lang := range domain.Languages() {
		for _, req := range []RenderRequest{
			{Language: lang, StateID: domain.StateMinFactsRequest, FactsRequired: s.templates.DefaultFacts},
			{Language: lang, StateID: domain.StatePresentChoices, Choices: twoChoices()[:1]},
		} {
			msg, err := s.renderer.Render(req)
			s.Require().NoError(err, "%s/%s", lang, req.StateID)
			s.assertWellFormed(msg)
		}
	}
}

// =============================================================================
// Options and structure
// =============================================================================

func TestNewRequiresTemplates(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestRendererRecordsMetricsAndLogs(t *testing.T) {
	ts, err := DefaultTemplates()
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	var buf bytes.Buffer
	r, err := New(ts, WithMetrics(m), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)

	_, err = r.Render(RenderRequest{Language: domain.LanguageKorean, StateID: domain.StateMinFactsRequest, FactsRequired: clothingFacts()})
	require.NoError(t, err)
	_, err = r.Render(RenderRequest{Language: domain.LanguageKorean, StateID: domain.StatePresentChoices})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("S1_MIN_FACTS_REQUEST", "ko", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("S2_PRESENT_CHOICES", "ko", "invariant_violation")))
	assert.Contains(t, buf.String(), "render failed")
}

func TestCheckStructure(t *testing.T) {
	good := Parts{Declaration: "a", Body: "b\nc", Disclosure: "d", WaitPrompt: "w"}
	assert.NoError(t, checkStructure(good, strings.Join(good.Slice(), partSeparator)))

	empty := good
	empty.Body = ""
	assert.ErrorIs(t, checkStructure(empty, strings.Join(empty.Slice(), partSeparator)), ErrStructure)

	blank := good
	blank.Disclosure = "d\n\ne"
	assert.ErrorIs(t, checkStructure(blank, strings.Join(blank.Slice(), partSeparator)), ErrStructure)

	assert.ErrorIs(t, checkStructure(good, "a\n\nb\n\nd\n\nw\nextra"), ErrStructure)
}
