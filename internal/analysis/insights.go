package analysis

import (
	"fmt"
	"sort"

	"github.com/centerpulse/centerpulse/internal/domain"
)

// Insight thresholds.
const (
	lowPerformerBelow   = 70.0 // completion under this flags an improvement card
	attainmentPositive  = 0.7  // share of centers on target for a positive card
	progressPositivePct = 80.0
	progressNeutralPct  = 60.0
)

// Insights derives the operational insight cards from the current metrics
// table. The order is fixed: top performer, low performer (when one is
// under threshold), target attainment, overall progress, remaining-volume
// priority. Ties break by center name so output is deterministic.
func Insights(metrics []domain.EnhancedCenterMetric, target float64) []domain.Insight {
	if len(metrics) == 0 {
		return nil
	}

	byCompletionDesc := sorted(metrics, func(a, b domain.EnhancedCenterMetric) bool {
		if a.Completion != b.Completion {
			return a.Completion > b.Completion
		}
		return a.Name < b.Name
	})

	var out []domain.Insight

	top := byCompletionDesc[0]
	out = append(out, domain.Insight{
		Title:   "최고 성과 센터",
		Content: fmt.Sprintf("%s이(가) %.1f%% 마감률로 최고 성과를 보이고 있습니다.", top.Name, top.Completion),
		Icon:    "📈",
		Type:    "positive",
	})

	low := byCompletionDesc[len(byCompletionDesc)-1]
	if low.Completion < lowPerformerBelow {
		out = append(out, domain.Insight{
			Title:   "개선 필요 센터",
			Content: fmt.Sprintf("%s의 마감률이 %.1f%%로 목표치에 미달합니다.", low.Name, low.Completion),
			Icon:    "⚠️",
			Type:    "warning",
		})
	}

	var onTarget int
	for _, m := range metrics {
		if m.Completion >= target {
			onTarget++
		}
	}
	attainType := "neutral"
	if float64(onTarget)/float64(len(metrics)) >= attainmentPositive {
		attainType = "positive"
	}
	out = append(out, domain.Insight{
		Title: "목표 달성 현황",
		Content: fmt.Sprintf("전체 %d개 센터 중 %d개 센터가 목표 마감률(%.0f%%)을 달성했습니다.",
			len(metrics), onTarget, target),
		Icon: "🎯",
		Type: attainType,
	})

	var totalClosed, totalItems int
	for _, m := range metrics {
		totalClosed += m.Closed
		totalItems += m.Total
	}
	var progressPct float64
	if totalItems > 0 {
		progressPct = float64(totalClosed) / float64(totalItems) * 100
	}
	progressType := "warning"
	switch {
	case progressPct >= progressPositivePct:
		progressType = "positive"
	case progressPct >= progressNeutralPct:
		progressType = "neutral"
	}
	out = append(out, domain.Insight{
		Title: "전체 마감 현황",
		Content: fmt.Sprintf("전체 물량 %d개 중 %d개(%.1f%%)가 마감되었습니다.",
			totalItems, totalClosed, progressPct),
		Icon: "📊",
		Type: progressType,
	})

	byRemaining := sorted(metrics, func(a, b domain.EnhancedCenterMetric) bool {
		if a.Remaining != b.Remaining {
			return a.Remaining > b.Remaining
		}
		return a.Name < b.Name
	})
	most := byRemaining[0]
	out = append(out, domain.Insight{
		Title:   "잔여 물량 우선순위",
		Content: fmt.Sprintf("%s에 %d개의 잔여 물량이 있습니다.", most.Name, most.Remaining),
		Icon:    "🔍",
		Type:    "action",
	})

	return out
}

func sorted(metrics []domain.EnhancedCenterMetric, less func(a, b domain.EnhancedCenterMetric) bool) []domain.EnhancedCenterMetric {
	out := make([]domain.EnhancedCenterMetric, len(metrics))
	copy(out, metrics)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
