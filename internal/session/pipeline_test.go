package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vocilia/internal/business"
	"vocilia/internal/fraud"
	"vocilia/internal/reward"
	"vocilia/internal/scoring"
	"vocilia/internal/session"
	"vocilia/internal/session/mocks"
	"vocilia/internal/tier"
	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

type PipelineSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	scorer     *mocks.MockScorer
	assessor   *mocks.MockRiskAssessor
	calculator *mocks.MockRewardCalculator
	businesses *business.InMemoryContextStore
	tiers      *tier.InMemoryPolicyStore
	pipeline   *session.Pipeline

	businessID id.BusinessID
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.scorer = mocks.NewMockScorer(s.ctrl)
	s.assessor = mocks.NewMockRiskAssessor(s.ctrl)
	s.calculator = mocks.NewMockRewardCalculator(s.ctrl)
	s.businesses = business.NewInMemoryContextStore()
	s.tiers = tier.NewInMemoryPolicyStore()

	s.businessID = id.NewBusinessID()
	s.Require().NoError(s.businesses.Put(context.Background(), &business.Context{
		BusinessID:   s.businessID,
		Name:         "Söder Livs",
		BusinessType: business.TypeGrocery,
		Language:     "sv",
		UpdatedAt:    time.Now(),
	}))

	pipeline, err := session.NewPipeline(
		s.scorer, s.assessor, s.calculator, s.businesses, s.tiers,
		session.WithPipelineLogger(quietLogger()),
		session.WithScoringBackoff(time.Millisecond),
	)
	s.Require().NoError(err)
	s.pipeline = pipeline
}

func (s *PipelineSuite) TearDownTest() {
	s.ctrl.Finish()
}

// snapshot builds the completing-state record the manager would hand to Run.
func (s *PipelineSuite) snapshot() *session.Session {
	agg := transcript.NewAggregator(32)
	s.Require().NoError(agg.Append(transcript.Turn{
		Speaker:    transcript.SpeakerCustomer,
		Text:       "mejerikylen var trasig igen, tredje veckan i rad",
		Confidence: 0.88,
		Timestamp:  time.Now(),
	}))

	return &session.Session{
		ID:                id.NewSessionID(),
		BusinessID:        s.businessID,
		CustomerHash:      id.CustomerHash("customer-7"),
		State:             session.StateCompleting,
		PurchaseAmount:    id.Money(18_000),
		PurchaseItems:     []string{"mjölk", "smör"},
		ClientIP:          "203.0.113.7",
		UserAgent:         "Mozilla/5.0 (iPhone)",
		DeviceFingerprint: "fp-7c1d",
		Transcript:        agg,
	}
}

func (s *PipelineSuite) quality() *scoring.QualityScore {
	return &scoring.QualityScore{Authenticity: 75, Concreteness: 82, Depth: 60, Total: 74.1}
}

func (s *PipelineSuite) assessment() *fraud.Assessment {
	return &fraud.Assessment{RiskLevel: fraud.RiskLow, OverallRiskScore: 0.08, AssessedAt: time.Now()}
}

func (s *PipelineSuite) TestNewPipeline_RequiresDependencies() {
	cases := []struct {
		name  string
		build func() (*session.Pipeline, error)
	}{
		{"nil scorer", func() (*session.Pipeline, error) {
			return session.NewPipeline(nil, s.assessor, s.calculator, s.businesses, s.tiers)
		}},
		{"nil assessor", func() (*session.Pipeline, error) {
			return session.NewPipeline(s.scorer, nil, s.calculator, s.businesses, s.tiers)
		}},
		{"nil calculator", func() (*session.Pipeline, error) {
			return session.NewPipeline(s.scorer, s.assessor, nil, s.businesses, s.tiers)
		}},
		{"nil business store", func() (*session.Pipeline, error) {
			return session.NewPipeline(s.scorer, s.assessor, s.calculator, nil, s.tiers)
		}},
		{"nil tier store", func() (*session.Pipeline, error) {
			return session.NewPipeline(s.scorer, s.assessor, s.calculator, s.businesses, nil)
		}},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := tc.build()
			s.Error(err)
		})
	}
}

func (s *PipelineSuite) TestRun_JoinsStages() {
	sess := s.snapshot()
	quality := s.quality()
	assessment := s.assessment()

	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(quality, nil)
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(assessment, nil)
	s.calculator.EXPECT().Calculate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in reward.Input) (*reward.Decision, error) {
			s.Equal(sess.ID, in.SessionID)
			s.Equal(sess.PurchaseAmount, in.PurchaseAmount)
			s.Same(quality, in.Quality)
			s.Same(assessment, in.Fraud)
			// No policy row seeded: the entry tier applies.
			s.Require().NotNil(in.Tier)
			s.Equal(tier.Level1, in.Tier.Level)
			return &reward.Decision{SessionID: in.SessionID, TierCappedReward: id.Money(1_800)}, nil
		})

	out, err := s.pipeline.Run(context.Background(), sess, nil)
	s.Require().NoError(err)
	s.Same(quality, out.Quality)
	s.Same(assessment, out.Assessment)
	s.Require().NotNil(out.Decision)
	s.EqualValues(1_800, out.Decision.TierCappedReward.Minor())
}

func (s *PipelineSuite) TestRun_ScoringInputFromSnapshot() {
	sess := s.snapshot()

	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in scoring.Input) (*scoring.QualityScore, error) {
			s.Same(sess.Transcript, in.Transcript)
			s.Equal(sess.PurchaseItems, in.PurchaseItems)
			s.Require().NotNil(in.Business)
			s.Equal("Söder Livs", in.Business.Name)
			return s.quality(), nil
		})
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(s.assessment(), nil)
	s.calculator.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(&reward.Decision{}, nil)

	_, err := s.pipeline.Run(context.Background(), sess, nil)
	s.Require().NoError(err)
}

func (s *PipelineSuite) TestRun_FraudInputFromSnapshot() {
	sess := s.snapshot()
	authenticity := 0.93

	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(s.quality(), nil)
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in fraud.Input) (*fraud.Assessment, error) {
			s.Equal(sess.ID, in.SessionID)
			s.Equal(sess.CustomerHash, in.CustomerHash)
			s.Equal(sess.DeviceFingerprint, in.DeviceFingerprint)
			s.Equal(sess.ClientIP, in.ClientIP)
			s.Require().NotNil(in.VoiceAuthenticity)
			s.InDelta(0.93, *in.VoiceAuthenticity, 0.001)
			return s.assessment(), nil
		})
	s.calculator.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(&reward.Decision{}, nil)

	_, err := s.pipeline.Run(context.Background(), sess, &authenticity)
	s.Require().NoError(err)
}

func (s *PipelineSuite) TestRun_ScoringRetrySucceeds() {
	calls := 0
	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, scoring.Input) (*scoring.QualityScore, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("model timeout")
			}
			return s.quality(), nil
		}).Times(2)
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(s.assessment(), nil)
	s.calculator.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(&reward.Decision{}, nil)

	out, err := s.pipeline.Run(context.Background(), s.snapshot(), nil)
	s.Require().NoError(err)
	s.NotNil(out.Quality)
}

func (s *PipelineSuite) TestRun_ScoringFailureSurfacesAsUnavailable() {
	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("model down")).Times(2)
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(s.assessment(), nil).AnyTimes()

	_, err := s.pipeline.Run(context.Background(), s.snapshot(), nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeScoringUnavailable))
}

func (s *PipelineSuite) TestRun_InvalidTranscriptSkipsRetry() {
	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidInput, "transcript too short to score")).Times(1)
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(s.assessment(), nil).AnyTimes()

	_, err := s.pipeline.Run(context.Background(), s.snapshot(), nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *PipelineSuite) TestRun_TierPolicyApplied() {
	cfg := tier.DefaultConfig(s.businessID, tier.Level2)
	s.Require().NoError(s.tiers.Put(context.Background(), cfg))

	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(s.quality(), nil)
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(s.assessment(), nil)
	s.calculator.EXPECT().Calculate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in reward.Input) (*reward.Decision, error) {
			s.Require().NotNil(in.Tier)
			s.Equal(tier.Level2, in.Tier.Level)
			s.EqualValues(10_000, in.Tier.MaxSingleReward.Minor())
			return &reward.Decision{}, nil
		})

	_, err := s.pipeline.Run(context.Background(), s.snapshot(), nil)
	s.Require().NoError(err)
}

func (s *PipelineSuite) TestRun_BusinessLookupFailure() {
	sess := s.snapshot()
	sess.BusinessID = id.NewBusinessID()

	_, err := s.pipeline.Run(context.Background(), sess, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *PipelineSuite) TestRun_FraudFailureFailsRun() {
	wantErr := errors.New("risk engine down")
	s.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(s.quality(), nil).AnyTimes()
	s.assessor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(nil, wantErr)

	_, err := s.pipeline.Run(context.Background(), s.snapshot(), nil)
	s.Require().Error(err)
	s.ErrorIs(err, wantErr)
}
