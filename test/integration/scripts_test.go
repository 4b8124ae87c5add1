//go:build integration

package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/httpapi"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
	"github.com/eliteGoblin/focusd/secsim/test/fixtures"
)

var _ = Describe("Scripted sessions", func() {
	var (
		decoder *httpapi.Decoder
		start   = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	)

	BeforeEach(func() {
		decoder = httpapi.NewDecoder(profile.NewRegistry())
	})

	replay := func(script string) ([]domain.State, error) {
		actions, err := decoder.DecodeScript([]byte(script))
		if err != nil {
			return nil, err
		}
		s := domain.NewState(domain.DefaultSettings())
		states := make([]domain.State, 0, len(actions))
		for i, a := range actions {
			s = usecase.Reduce(s, a, start.Add(time.Duration(i)*time.Second))
			states = append(states, s)
		}
		return states, nil
	}

	Describe("the hardening script", func() {
		It("should raise the score step by step to a perfect score", func() {
			states, err := replay(fixtures.HardeningScript)
			Expect(err).NotTo(HaveOccurred())

			scores := make([]int, 0, len(states))
			for _, s := range states {
				scores = append(scores, usecase.SecurityScore(s))
			}
			Expect(scores).To(Equal(fixtures.HardeningScores))

			final := states[len(states)-1]
			Expect(final.Achievements.Has(domain.PerfectScore)).To(BeTrue())
			Expect(final.Achievements.Has(domain.LatestAndGreatest)).To(BeTrue())
			Expect(final.Achievements.Has(domain.ShieldsUp)).To(BeTrue())
		})

		It("should keep installed updates and achievements across a restart", func() {
			states, err := replay(fixtures.HardeningScript)
			Expect(err).NotTo(HaveOccurred())

			final := states[len(states)-1]
			restarted := usecase.Reduce(final, usecase.Restart{}, start.Add(time.Hour))

			Expect(restarted.Updates.AllInstalled()).To(BeTrue())
			Expect(restarted.Achievements).To(Equal(final.Achievements))
			Expect(restarted.Antivirus).To(Equal(domain.ProtectionInactive))
			Expect(restarted.History[0].Message).To(Equal("System restarted successfully."))
		})
	})

	Describe("the threat script", func() {
		It("should warn on detection and recover after quarantine", func() {
			states, err := replay(fixtures.ThreatScript)
			Expect(err).NotTo(HaveOccurred())

			detected := states[3]
			Expect(detected.Antivirus).To(Equal(domain.ProtectionWarning))
			Expect(detected.Scan.Scanning).To(BeFalse())
			Expect(detected.Scan.ActiveThreats()).To(Equal(1))

			final := states[4]
			Expect(final.Antivirus).To(Equal(domain.ProtectionActive))
			Expect(final.Scan.ActiveThreats()).To(BeZero())
			Expect(final.Achievements.Has(domain.ThreatHunter)).To(BeTrue())
		})
	})

	Describe("a malformed script", func() {
		It("should be rejected with the failing index", func() {
			_, err := replay(`[{"type":"TOGGLE_ANTIVIRUS"},{"type":"SELF_DESTRUCT"}]`)
			Expect(err).To(MatchError(ContainSubstring("action 1")))
			Expect(err).To(MatchError(httpapi.ErrUnknownAction))
		})
	})
})
