//go:build integration

package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
	"github.com/eliteGoblin/focusd/secsim/test/fixtures"
)

var _ = Describe("Live session", func() {
	var (
		session  *liveSession
		cfg      = fastConfig()
		settings = domain.DefaultSettings()
		rnd      = fixtures.FixedRand{Int: 0, Float: 0}
	)

	JustBeforeEach(func() {
		session = startSession(cfg, settings, rnd)
		DeferCleanup(session.stop)
	})

	Describe("hardening the system", func() {
		It("should reach a perfect score and unlock Perfect Score", func() {
			Expect(session.score()).To(Equal(15))
			Expect(session.act(`{"type":"TOGGLE_ANTIVIRUS"}`)).To(Equal(40))
			Expect(session.act(`{"type":"TOGGLE_FIREWALL"}`)).To(Equal(65))
			Expect(session.state().Achievements.Has(domain.ShieldsUp)).To(BeTrue())

			session.act(`{"type":"CHECK_FOR_UPDATES"}`)
			Eventually(func() bool {
				u := session.state().Updates
				return u.AllInstalled() && !u.Installing
			}, 5*time.Second).Should(BeTrue())
			Expect(session.score()).To(Equal(85))
			Expect(session.state().Achievements.Has(domain.LatestAndGreatest)).To(BeTrue())

			Expect(session.act(`{"type":"SET_RANSOMWARE_PROTECTION","payload":{"status":"configured"}}`)).To(Equal(100))
			Expect(session.state().Achievements.Has(domain.PerfectScore)).To(BeTrue())
		})
	})

	Describe("scanning for threats", func() {
		It("should find a threat and clear it on quarantine", func() {
			session.act(`{"type":"TOGGLE_ANTIVIRUS"}`)
			session.act(`{"type":"START_SCAN","payload":{"profile":"quick"}}`)

			Eventually(func() bool { return session.state().Scan.Scanning }, 5*time.Second).Should(BeFalse())
			s := session.state()
			Expect(s.Scan.Progress).To(BeNumerically("==", 100))
			Expect(threatCount(s)).To(Equal(1))
			Expect(s.Antivirus).To(Equal(domain.ProtectionWarning))
			Expect(session.score()).To(Equal(0))

			threatID := s.Scan.Threats[0].ID
			session.act(`{"type":"MANAGE_THREAT","payload":{"threatId":"` + threatID + `","action":"quarantined"}}`)

			s = session.state()
			Expect(s.Antivirus).To(Equal(domain.ProtectionActive))
			Expect(s.Scan.Threats[0].Status).To(Equal(domain.ThreatQuarantined))
			Expect(s.Achievements.Has(domain.ThreatHunter)).To(BeTrue())
			Expect(session.score()).To(Equal(40))
		})
	})

	Describe("opening the security center twice", func() {
		It("should restack the existing window instead of duplicating it", func() {
			session.act(`{"type":"OPEN_WINDOW","payload":{"id":"security-center"}}`)
			session.act(`{"type":"OPEN_WINDOW","payload":{"id":"notepad"}}`)
			session.act(`{"type":"MINIMIZE_WINDOW","payload":{"id":"security-center"}}`)
			session.act(`{"type":"OPEN_WINDOW","payload":{"id":"security-center"}}`)

			s := session.state()
			Expect(s.Windows).To(HaveLen(2))

			sc, ok := s.Window(domain.AppSecurityCenter)
			Expect(ok).To(BeTrue())
			Expect(sc.Minimized).To(BeFalse())
			Expect(sc.Guarded).To(BeTrue())
			for _, w := range s.Windows {
				Expect(sc.ZIndex).To(BeNumerically(">=", w.ZIndex))
			}
		})

		It("should refuse to close it until the system is secure", func() {
			session.act(`{"type":"OPEN_WINDOW","payload":{"id":"security-center"}}`)
			session.act(`{"type":"CLOSE_WINDOW","payload":{"id":"security-center"}}`)

			s := session.state()
			Expect(s.Windows).To(HaveLen(1))
			Expect(s.VulnerablePopupOpen).To(BeTrue())
		})
	})

	Describe("the phishing prompt", func() {
		BeforeEach(func() {
			cfg = fastConfig()
			cfg.PhishingDelay = 20 * time.Millisecond
		})
		AfterEach(func() {
			cfg = fastConfig()
		})

		JustBeforeEach(func() {
			session.act(`{"type":"OPEN_WINDOW","payload":{"id":"security-center"}}`)
			Eventually(func() bool { return session.state().Phishing.PopupOpen }, 5*time.Second).Should(BeTrue())
		})

		Context("when the trainee declines", func() {
			It("should unlock Phish Avoider without adding a threat", func() {
				session.act(`{"type":"CLOSE_PHISHING_POPUP","payload":{"claimed":false}}`)

				s := session.state()
				Expect(s.Achievements.Has(domain.PhishAvoider)).To(BeTrue())
				Expect(threatCount(s)).To(Equal(0))
				Expect(s.Phishing.Outcome).To(Equal(domain.PhishingAvoided))
			})
		})

		Context("when the trainee claims the prize", func() {
			It("should add an active threat and raise a warning", func() {
				session.act(`{"type":"CLOSE_PHISHING_POPUP","payload":{"claimed":true}}`)

				s := session.state()
				Expect(threatCount(s)).To(Equal(1))
				Expect(s.Scan.Threats[0].Status).To(Equal(domain.ThreatActive))
				Expect(s.Antivirus).To(Equal(domain.ProtectionWarning))
				Expect(s.Achievements.Has(domain.PhishAvoider)).To(BeFalse())
			})
		})

		It("should not prompt again once answered", func() {
			session.act(`{"type":"CLOSE_PHISHING_POPUP","payload":{"claimed":false}}`)
			Consistently(func() bool { return session.state().Phishing.PopupOpen }, 100*time.Millisecond).Should(BeFalse())
		})
	})

	Describe("notifications", func() {
		BeforeEach(func() {
			settings = domain.Settings{HistoryLimit: domain.DefaultHistoryLimit, ToastLifetime: 30 * time.Millisecond}
		})
		AfterEach(func() {
			settings = domain.DefaultSettings()
		})

		It("should expire toasts after their lifetime", func() {
			session.act(`{"type":"ADD_NOTIFICATION","payload":{"title":"Hello","message":"world"}}`)
			Expect(session.state().Notifications).To(HaveLen(1))

			Eventually(func() []domain.Toast { return session.state().Notifications }, 5*time.Second).Should(BeEmpty())
		})
	})

	Describe("evaluation", func() {
		It("should send one report to the hosting context", func() {
			session.act(`{"type":"TOGGLE_ANTIVIRUS"}`)
			Expect(session.post("/evaluate")).To(BeElementOf(http.StatusOK, http.StatusAccepted))

			Eventually(session.sink.Reports, 5*time.Second).Should(HaveLen(1))
			report := session.sink.Reports()[0]
			Expect(report.Type).To(Equal(domain.ReportType))
			Expect(report.SessionID).To(Equal(testSessionID))
			Expect(report.MaxScore).To(Equal(usecase.MaxScore))
			Expect(report.Score).To(Equal(session.state().Evaluation.Score))
			Expect(report.ExtractedText).To(HavePrefix("Final score: "))

			Expect(session.post("/evaluate")).To(BeElementOf(http.StatusOK, http.StatusAccepted))
			Consistently(session.sink.Reports, 100*time.Millisecond).Should(HaveLen(1))
		})
	})
})
