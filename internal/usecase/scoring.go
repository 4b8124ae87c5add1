package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

const (
	// MaxScore is the ceiling of both the live score and the rubric.
	MaxScore = 100

	// GuardThreshold is the live score a guarded window needs to close.
	GuardThreshold = 90
)

// Live score weights.
const (
	antivirusWeight  = 25
	firewallWeight   = 25
	ransomwareWeight = 15
	threatsWeight    = 15
	updatesWeight    = 20
)

// ThreatsResolved reports whether no threat is still active. It holds
// trivially when nothing was ever detected.
func ThreatsResolved(s domain.State) bool {
	return s.Scan.ActiveThreats() == 0
}

// SecurityScore is the live posture score in [0, MaxScore].
func SecurityScore(s domain.State) int {
	score := 0
	if s.Antivirus == domain.ProtectionActive {
		score += antivirusWeight
	}
	if s.Firewall.Status == domain.ProtectionActive {
		score += firewallWeight
	}
	if s.Ransomware == domain.RansomwareConfigured {
		score += ransomwareWeight
	}
	if ThreatsResolved(s) {
		score += threatsWeight
	}
	if s.Updates.AllInstalled() {
		score += updatesWeight
	}
	return score
}

// Criterion is one weighted rubric item.
type Criterion struct {
	Text   string
	Hint   string
	Points int
	Met    func(domain.State) bool
}

var rubric = []Criterion{
	{
		Text:   "Real-time antivirus protection is active.",
		Hint:   "Turn on real-time protection in Virus & threat protection.",
		Points: 20,
		Met:    func(s domain.State) bool { return s.Antivirus == domain.ProtectionActive },
	},
	{
		Text:   "The network firewall is active.",
		Hint:   "Turn on the firewall in Firewall & network protection.",
		Points: 20,
		Met:    func(s domain.State) bool { return s.Firewall.Status == domain.ProtectionActive },
	},
	{
		Text:   "All system updates are installed.",
		Hint:   "Check for updates and let them install.",
		Points: 20,
		Met:    func(s domain.State) bool { return s.Updates.AllInstalled() },
	},
	{
		Text:   "Ransomware protection (OneDrive) is configured.",
		Hint:   "Set up ransomware protection with OneDrive folder backup.",
		Points: 15,
		Met:    func(s domain.State) bool { return s.Ransomware == domain.RansomwareConfigured },
	},
	{
		Text:   "No active threats are present on the system.",
		Hint:   "Run a scan and quarantine or remove every threat it finds.",
		Points: 15,
		Met:    ThreatsResolved,
	},
	{
		Text:   "A phishing attempt was successfully avoided.",
		Hint:   "Be suspicious of prize offers. Decline the next one.",
		Points: 10,
		Met:    func(s domain.State) bool { return s.Achievements.Has(domain.PhishAvoider) },
	},
}

// Rubric returns the evaluation criteria in report order.
func Rubric() []Criterion {
	out := make([]Criterion, len(rubric))
	copy(out, rubric)
	return out
}

// EvaluateRubric scores s against the rubric.
func EvaluateRubric(s domain.State) domain.EvaluationResult {
	res := domain.EvaluationResult{
		MaxScore:   MaxScore,
		Details:    make([]domain.EvaluationDetail, 0, len(rubric)),
		TotalTasks: len(rubric),
	}
	for _, c := range rubric {
		met := c.Met(s)
		res.Details = append(res.Details, domain.EvaluationDetail{
			Text:     c.Text,
			Achieved: met,
			Points:   c.Points,
		})
		if met {
			res.Score += c.Points
			res.TasksCompleted++
		}
	}
	return res
}

// firstUnmet returns the first rubric item s does not satisfy.
func firstUnmet(s domain.State) (Criterion, bool) {
	for _, c := range rubric {
		if !c.Met(s) {
			return c, true
		}
	}
	return Criterion{}, false
}

// Summary is the closing remark shown with an evaluation.
func Summary(res domain.EvaluationResult) string {
	switch {
	case res.Score >= 80:
		return "Congratulations! You secured the system and showed a good understanding of the tools."
	case res.Score >= 50:
		return "The exercise is over. You made good progress, but some important vulnerabilities remain."
	default:
		return "The exercise is over. The system is still vulnerable. Try enabling every protection next time."
	}
}

// FormatDetails flattens the rubric breakdown into one line.
func FormatDetails(res domain.EvaluationResult) string {
	parts := make([]string, 0, len(res.Details))
	for _, d := range res.Details {
		mark := "[ ]"
		if d.Achieved {
			mark = "[x]"
		}
		parts = append(parts, fmt.Sprintf("%s %s (%d pts)", mark, d.Text, d.Points))
	}
	return strings.Join(parts, "; ")
}

const isoMillis = "2006-01-02T15:04:05.000Z"

// BuildReport turns an evaluation into the message sent to the hosting context.
func BuildReport(res domain.EvaluationResult, at time.Time) domain.EvaluationReport {
	details := FormatDetails(res)
	return domain.EvaluationReport{
		Type:           domain.ReportType,
		Score:          res.Score,
		MaxScore:       res.MaxScore,
		Details:        details,
		TasksCompleted: res.TasksCompleted,
		TotalTasks:     res.TotalTasks,
		ExtractedText:  fmt.Sprintf("Final score: %d/%d. Details: %s", res.Score, res.MaxScore, details),
		Timestamp:      at.UTC().Format(isoMillis),
	}
}

// BuildSecurityReport summarises the session for the exit popup.
func BuildSecurityReport(s domain.State) domain.SecurityReport {
	managed := 0
	for _, t := range s.Scan.Threats {
		if t.Status != domain.ThreatActive {
			managed++
		}
	}
	return domain.SecurityReport{
		ThreatsManaged:   managed,
		UpdatesInstalled: s.Updates.CountInstalled(),
		FinalScore:       SecurityScore(s),
	}
}
