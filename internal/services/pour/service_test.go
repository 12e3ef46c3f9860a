package pour

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/kegwatch/kegwatch/internal/common/clock/mocks"
	uuidMocks "github.com/kegwatch/kegwatch/internal/common/uuid/mocks"
	"github.com/kegwatch/kegwatch/internal/kegsize"
	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	eventRepo "github.com/kegwatch/kegwatch/internal/repositories/event"
	kegRepo "github.com/kegwatch/kegwatch/internal/repositories/keg"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
)

const testIdleTimeout = 30 * time.Minute

// PourServiceTestSuite drives the service against real Redis-backed
// repositories on miniredis, with the clock and UUID generator mocked.
type PourServiceTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	mockUUID  *uuidMocks.MockUUID

	mr     *miniredis.Miniredis
	client *redis.Client

	kegRepo     kegRepo.Repository
	drinkRepo   drinkRepo.Repository
	sessionRepo sessionRepo.Repository
	chunkRepo   chunkRepo.Repository
	eventRepo   eventRepo.Repository

	service Service
	ctx     context.Context

	// now is what the mocked clock returns; tests move it
	now      time.Time
	testTime time.Time
	uuidSeq  int
}

func (s *PourServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.kegRepo, err = kegRepo.NewRedis(&kegRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.drinkRepo, err = drinkRepo.NewRedis(&drinkRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.sessionRepo, err = sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.chunkRepo, err = chunkRepo.NewRedis(&chunkRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.eventRepo, err = eventRepo.NewRedis(&eventRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.testTime = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	s.now = s.testTime
	s.uuidSeq = 0

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.uuidSeq++
		return fmt.Sprintf("uuid-%d", s.uuidSeq)
	}).AnyTimes()

	svc, err := New(&Config{
		IdleTimeout:       testIdleTimeout,
		LowVolumeFraction: 0.15,
		KegRepo:           s.kegRepo,
		DrinkRepo:         s.drinkRepo,
		SessionRepo:       s.sessionRepo,
		ChunkRepo:         s.chunkRepo,
		EventRepo:         s.eventRepo,
		Clock:             s.mockClock,
		UUID:              s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc

	s.ctx = context.Background()

	err = s.kegRepo.SaveTap(s.ctx, &kegRepo.SaveTapInput{
		Tap: &models.Tap{ID: "tap-1", Name: "Main Tap"},
	})
	s.Require().NoError(err)
}

func (s *PourServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.client.Close()
	s.mr.Close()
}

func TestPourServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PourServiceTestSuite))
}

// startKeg mounts a fresh keg on tap-1 and returns it.
func (s *PourServiceTestSuite) startKeg(fullVolumeML float64) *models.Keg {
	out, err := s.service.StartKeg(s.ctx, &StartKegInput{
		TapID:        "tap-1",
		Beverage:     models.Beverage{Name: "Test IPA"},
		KegType:      kegsize.Other,
		FullVolumeML: fullVolumeML,
	})
	s.Require().NoError(err)
	return out.Keg
}

func (s *PourServiceTestSuite) pour(userID string, volumeML float64, at time.Time) *RecordPourOutput {
	out, err := s.service.RecordPour(s.ctx, &RecordPourInput{
		TapID:    "tap-1",
		VolumeML: volumeML,
		UserID:   userID,
		Time:     at,
	})
	s.Require().NoError(err)
	return out
}

func (s *PourServiceTestSuite) getChunk(kind models.ChunkKind, sessionID, userID, kegID string) *models.Chunk {
	c, err := s.chunkRepo.GetChunk(s.ctx, &chunkRepo.GetChunkInput{
		Kind:      kind,
		SessionID: sessionID,
		UserID:    userID,
		KegID:     kegID,
	})
	s.Require().NoError(err)
	return c
}

func eventKinds(events []*models.SystemEvent) []models.EventKind {
	kinds := make([]models.EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (s *PourServiceTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{})
	s.Equal(ErrNilKegRepo, err)

	_, err = New(&Config{
		KegRepo:     s.kegRepo,
		DrinkRepo:   s.drinkRepo,
		SessionRepo: s.sessionRepo,
		ChunkRepo:   s.chunkRepo,
		EventRepo:   s.eventRepo,
		Clock:       s.mockClock,
	})
	s.Equal(ErrNilUUIDGenerator, err)
}

func (s *PourServiceTestSuite) TestRecordPourValidation() {
	_, err := s.service.RecordPour(s.ctx, &RecordPourInput{TapID: "tap-1", VolumeML: -1})
	s.Equal(ErrInvalidVolume, err)

	_, err = s.service.RecordPour(s.ctx, &RecordPourInput{VolumeML: 100})
	s.Equal(ErrMissingTap, err)

	// Tap exists but has no keg mounted
	_, err = s.service.RecordPour(s.ctx, &RecordPourInput{TapID: "tap-1", VolumeML: 100})
	s.Equal(ErrNoKegOnTap, err)

	_, err = s.service.RecordPour(s.ctx, &RecordPourInput{TapID: "no-such-tap", VolumeML: 100})
	s.Equal(ErrTapNotFound, err)
}

func (s *PourServiceTestSuite) TestRecordPourFirstDrink() {
	keg := s.startKeg(5000)

	out := s.pour("user-1", 150, s.testTime)

	s.Equal("user-1", out.Drink.UserID)
	s.Equal(keg.ID, out.Drink.KegID)
	s.Equal(out.Session.ID, out.Drink.SessionID)

	s.Equal(s.testTime, out.Session.StartTime)
	s.Equal(s.testTime.Add(testIdleTimeout), out.Session.EndTime)
	s.Equal(150.0, out.Session.VolumeML)

	s.Equal([]models.EventKind{
		models.EventSessionStarted,
		models.EventSessionJoined,
		models.EventDrinkPoured,
	}, eventKinds(out.Events))

	got, err := s.kegRepo.GetKeg(s.ctx, &kegRepo.GetKegInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Equal(150.0, got.ServedVolumeML)
}

func (s *PourServiceTestSuite) TestPoursWithinTimeoutShareSession() {
	s.startKeg(5000)

	first := s.pour("user-1", 100, s.testTime)
	second := s.pour("user-2", 50, s.testTime.Add(10*time.Minute))

	s.Equal(first.Session.ID, second.Session.ID)
	s.Equal(150.0, second.Session.VolumeML)
	s.Equal(s.testTime, second.Session.StartTime)
	s.Equal(s.testTime.Add(10*time.Minute).Add(testIdleTimeout), second.Session.EndTime)

	// No second session_started; the new user still joins
	s.Equal([]models.EventKind{
		models.EventSessionJoined,
		models.EventDrinkPoured,
	}, eventKinds(second.Events))
}

func (s *PourServiceTestSuite) TestIdleGapStartsNewSession() {
	s.startKeg(5000)

	first := s.pour("user-1", 100, s.testTime)
	second := s.pour("user-1", 100, s.testTime.Add(testIdleTimeout+time.Minute))

	s.NotEqual(first.Session.ID, second.Session.ID)
	s.Equal(100.0, second.Session.VolumeML)

	// A fresh session means a fresh session_started, and the user joins
	// again even though they were in the previous session
	s.Equal([]models.EventKind{
		models.EventSessionStarted,
		models.EventSessionJoined,
		models.EventDrinkPoured,
	}, eventKinds(second.Events))
}

func (s *PourServiceTestSuite) TestPourAtExactDeadlineStartsNewSession() {
	s.startKeg(5000)

	first := s.pour("user-1", 100, s.testTime)
	second := s.pour("user-1", 100, first.Session.EndTime)

	s.NotEqual(first.Session.ID, second.Session.ID)
}

func (s *PourServiceTestSuite) TestAnonymousPourHasNoJoinEvent() {
	s.startKeg(5000)

	out := s.pour("", 100, s.testTime)

	s.Equal([]models.EventKind{
		models.EventSessionStarted,
		models.EventDrinkPoured,
	}, eventKinds(out.Events))
}

func (s *PourServiceTestSuite) TestRepeatPourByUserJoinsOnce() {
	s.startKeg(5000)

	s.pour("user-1", 100, s.testTime)
	second := s.pour("user-1", 100, s.testTime.Add(5*time.Minute))

	s.Equal([]models.EventKind{
		models.EventDrinkPoured,
	}, eventKinds(second.Events))
}

func (s *PourServiceTestSuite) TestChunksAggregateSession() {
	keg := s.startKeg(5000)

	out := s.pour("user-1", 100, s.testTime)
	s.pour("user-1", 50, s.testTime.Add(5*time.Minute))
	s.pour("user-2", 200, s.testTime.Add(10*time.Minute))

	sessionID := out.Session.ID

	user1 := s.getChunk(models.ChunkKindUserKeg, sessionID, "user-1", keg.ID)
	s.Equal(150.0, user1.VolumeML)
	s.Equal(s.testTime, user1.StartTime)
	s.Equal(s.testTime.Add(5*time.Minute).Add(testIdleTimeout), user1.EndTime)

	user2 := s.getChunk(models.ChunkKindUser, sessionID, "user-2", "")
	s.Equal(200.0, user2.VolumeML)

	kegChunk := s.getChunk(models.ChunkKindKeg, sessionID, "", keg.ID)
	s.Equal(350.0, kegChunk.VolumeML)

	// The user_keg chunks partition the session volume
	sess, err := s.sessionRepo.GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Equal(kegChunk.VolumeML, sess.VolumeML)
}

func (s *PourServiceTestSuite) TestKegVolumeLowFiresOnCrossingOnly() {
	// 1000 mL keg, 15% threshold at 150 mL
	s.startKeg(1000)

	// Remaining 300: above threshold, no event
	out := s.pour("user-1", 700, s.testTime)
	s.NotContains(eventKinds(out.Events), models.EventKegVolumeLow)

	// Remaining 140: crosses, fires
	out = s.pour("user-1", 160, s.testTime.Add(5*time.Minute))
	s.Contains(eventKinds(out.Events), models.EventKegVolumeLow)

	// Already below, never fires again
	out = s.pour("user-1", 50, s.testTime.Add(10*time.Minute))
	s.NotContains(eventKinds(out.Events), models.EventKegVolumeLow)
}

func (s *PourServiceTestSuite) TestKegVolumeLowExactlyAtThreshold() {
	s.startKeg(1000)

	// Remaining exactly 150 counts as low
	out := s.pour("user-1", 850, s.testTime)
	s.Contains(eventKinds(out.Events), models.EventKegVolumeLow)
}

func (s *PourServiceTestSuite) TestCancelSoleDrinkDeletesSession() {
	keg := s.startKeg(5000)

	out := s.pour("user-1", 150, s.testTime)

	cancelled, err := s.service.CancelDrink(s.ctx, &CancelDrinkInput{DrinkID: out.Drink.ID})
	s.Require().NoError(err)
	s.True(cancelled.SessionDeleted)
	s.Nil(cancelled.Session)

	_, err = s.sessionRepo.GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: out.Session.ID})
	s.Equal(sessionRepo.ErrSessionNotFound, err)

	chunks, err := s.chunkRepo.GetChunksForSession(s.ctx, &chunkRepo.GetChunksForSessionInput{
		SessionID: out.Session.ID,
		Kind:      models.ChunkKindUserKeg,
	})
	s.Require().NoError(err)
	s.Empty(chunks.Chunks)

	// The keg gets its volume back
	got, err := s.kegRepo.GetKeg(s.ctx, &kegRepo.GetKegInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Equal(0.0, got.ServedVolumeML)
}

func (s *PourServiceTestSuite) TestCancelDrinkRebuildsSession() {
	keg := s.startKeg(5000)

	first := s.pour("user-1", 100, s.testTime)
	second := s.pour("user-2", 200, s.testTime.Add(10*time.Minute))

	cancelled, err := s.service.CancelDrink(s.ctx, &CancelDrinkInput{DrinkID: second.Drink.ID})
	s.Require().NoError(err)
	s.False(cancelled.SessionDeleted)
	s.Require().NotNil(cancelled.Session)

	// Bounds and volume shrink back to the surviving drink
	s.Equal(100.0, cancelled.Session.VolumeML)
	s.Equal(s.testTime, cancelled.Session.StartTime)
	s.Equal(s.testTime.Add(testIdleTimeout), cancelled.Session.EndTime)

	// The cancelled user's chunks are gone
	_, err = s.chunkRepo.GetChunk(s.ctx, &chunkRepo.GetChunkInput{
		Kind:      models.ChunkKindUser,
		SessionID: first.Session.ID,
		UserID:    "user-2",
	})
	s.Equal(chunkRepo.ErrChunkNotFound, err)

	got, err := s.kegRepo.GetKeg(s.ctx, &kegRepo.GetKegInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Equal(100.0, got.ServedVolumeML)
}

func (s *PourServiceTestSuite) TestReassignDrink() {
	keg := s.startKeg(5000)

	out := s.pour("user-1", 150, s.testTime)

	reassigned, err := s.service.ReassignDrink(s.ctx, &ReassignDrinkInput{
		DrinkID: out.Drink.ID,
		UserID:  "user-2",
	})
	s.Require().NoError(err)
	s.Equal("user-2", reassigned.Drink.UserID)

	// The new user joins the session
	s.Equal([]models.EventKind{models.EventSessionJoined}, eventKinds(reassigned.Events))

	// Chunks move to the new user
	c := s.getChunk(models.ChunkKindUserKeg, out.Session.ID, "user-2", keg.ID)
	s.Equal(150.0, c.VolumeML)

	_, err = s.chunkRepo.GetChunk(s.ctx, &chunkRepo.GetChunkInput{
		Kind:      models.ChunkKindUserKeg,
		SessionID: out.Session.ID,
		UserID:    "user-1",
		KegID:     keg.ID,
	})
	s.Equal(chunkRepo.ErrChunkNotFound, err)
}

func (s *PourServiceTestSuite) TestReassignDrinkSameUserIsNoOp() {
	s.startKeg(5000)

	out := s.pour("user-1", 150, s.testTime)

	reassigned, err := s.service.ReassignDrink(s.ctx, &ReassignDrinkInput{
		DrinkID: out.Drink.ID,
		UserID:  "user-1",
	})
	s.Require().NoError(err)
	s.Empty(reassigned.Events)
}

func (s *PourServiceTestSuite) TestReassignBackDoesNotRejoin() {
	s.startKeg(5000)

	out := s.pour("user-1", 150, s.testTime)

	_, err := s.service.ReassignDrink(s.ctx, &ReassignDrinkInput{
		DrinkID: out.Drink.ID,
		UserID:  "user-2",
	})
	s.Require().NoError(err)

	// user-1 joined the session back when they poured
	reassigned, err := s.service.ReassignDrink(s.ctx, &ReassignDrinkInput{
		DrinkID: out.Drink.ID,
		UserID:  "user-1",
	})
	s.Require().NoError(err)
	s.Empty(reassigned.Events)
}

func (s *PourServiceTestSuite) TestSetDrinkVolume() {
	keg := s.startKeg(5000)

	out := s.pour("user-1", 100, s.testTime)

	corrected, err := s.service.SetDrinkVolume(s.ctx, &SetDrinkVolumeInput{
		DrinkID:  out.Drink.ID,
		VolumeML: 250,
	})
	s.Require().NoError(err)
	s.Equal(250.0, corrected.Drink.VolumeML)

	got, err := s.kegRepo.GetKeg(s.ctx, &kegRepo.GetKegInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Equal(250.0, got.ServedVolumeML)

	sess, err := s.sessionRepo.GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: out.Session.ID})
	s.Require().NoError(err)
	s.Equal(250.0, sess.VolumeML)

	c := s.getChunk(models.ChunkKindUserKeg, out.Session.ID, "user-1", keg.ID)
	s.Equal(250.0, c.VolumeML)
}

func (s *PourServiceTestSuite) TestSetDrinkVolumeValidation() {
	_, err := s.service.SetDrinkVolume(s.ctx, &SetDrinkVolumeInput{DrinkID: "drink-1", VolumeML: -1})
	s.Equal(ErrInvalidVolume, err)

	_, err = s.service.SetDrinkVolume(s.ctx, &SetDrinkVolumeInput{DrinkID: "no-such-drink", VolumeML: 100})
	s.Equal(ErrDrinkNotFound, err)
}

func (s *PourServiceTestSuite) TestRebuildSessionIsIdempotent() {
	keg := s.startKeg(5000)

	out := s.pour("user-1", 100, s.testTime)
	s.pour("user-2", 200, s.testTime.Add(10*time.Minute))

	before, err := s.sessionRepo.GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: out.Session.ID})
	s.Require().NoError(err)

	rebuilt, err := s.service.RebuildSession(s.ctx, &RebuildSessionInput{SessionID: out.Session.ID})
	s.Require().NoError(err)
	s.False(rebuilt.Deleted)

	s.Equal(before.VolumeML, rebuilt.Session.VolumeML)
	s.Equal(before.StartTime, rebuilt.Session.StartTime)
	s.Equal(before.EndTime, rebuilt.Session.EndTime)

	// Chunk volumes survive the rebuild
	kegChunk := s.getChunk(models.ChunkKindKeg, out.Session.ID, "", keg.ID)
	s.Equal(300.0, kegChunk.VolumeML)

	chunks, err := s.chunkRepo.GetChunksForSession(s.ctx, &chunkRepo.GetChunksForSessionInput{
		SessionID: out.Session.ID,
		Kind:      models.ChunkKindUserKeg,
	})
	s.Require().NoError(err)
	s.Require().Len(chunks.Chunks, 2)

	var total float64
	for _, c := range chunks.Chunks {
		total += c.VolumeML
	}
	s.Equal(rebuilt.Session.VolumeML, total)
}

func (s *PourServiceTestSuite) TestRecordSpill() {
	keg := s.startKeg(1000)

	out, err := s.service.RecordSpill(s.ctx, &RecordSpillInput{KegID: keg.ID, VolumeML: 100})
	s.Require().NoError(err)
	s.Equal(100.0, out.Keg.SpilledVolumeML)
	s.Equal(900.0, out.Keg.RemainingVolumeML())

	// Spills touch no drinks or sessions
	latest, err := s.sessionRepo.GetLatestSession(s.ctx, &sessionRepo.GetLatestSessionInput{})
	s.Require().NoError(err)
	s.Nil(latest.Session)
}

func (s *PourServiceTestSuite) TestStartKegDisplacesCurrent() {
	first := s.startKeg(5000)

	out, err := s.service.StartKeg(s.ctx, &StartKegInput{
		TapID:    "tap-1",
		Beverage: models.Beverage{Name: "Second Keg"},
		KegType:  kegsize.SixthBarrel,
	})
	s.Require().NoError(err)

	s.Equal([]models.EventKind{
		models.EventKegEnded,
		models.EventKegTapped,
	}, eventKinds(out.Events))

	tap, err := s.kegRepo.GetTap(s.ctx, &kegRepo.GetTapInput{TapID: "tap-1"})
	s.Require().NoError(err)
	s.Equal(out.Keg.ID, tap.CurrentKegID)

	old, err := s.kegRepo.GetKeg(s.ctx, &kegRepo.GetKegInput{KegID: first.ID})
	s.Require().NoError(err)
	s.False(old.Online)
}

func (s *PourServiceTestSuite) TestStartKegSizeVolume() {
	out, err := s.service.StartKeg(s.ctx, &StartKegInput{
		TapID:   "tap-1",
		KegType: kegsize.HalfBarrel,
	})
	s.Require().NoError(err)
	s.Equal(kegsize.VolumeML(kegsize.HalfBarrel), out.Keg.FullVolumeML)

	_, err = s.service.StartKeg(s.ctx, &StartKegInput{
		TapID:   "tap-1",
		KegType: kegsize.KegSize("bottomless"),
	})
	s.Equal(ErrInvalidKegSize, err)
}

func (s *PourServiceTestSuite) TestEndKeg() {
	keg := s.startKeg(5000)

	out, err := s.service.EndKeg(s.ctx, &EndKegInput{TapID: "tap-1"})
	s.Require().NoError(err)
	s.False(out.Keg.Online)
	s.Equal(keg.ID, out.Keg.ID)
	s.Equal([]models.EventKind{models.EventKegEnded}, eventKinds(out.Events))

	tap, err := s.kegRepo.GetTap(s.ctx, &kegRepo.GetTapInput{TapID: "tap-1"})
	s.Require().NoError(err)
	s.Empty(tap.CurrentKegID)

	_, err = s.service.EndKeg(s.ctx, &EndKegInput{TapID: "tap-1"})
	s.Equal(ErrNoKegOnTap, err)
}

func (s *PourServiceTestSuite) TestEndKegBackfillsBounds() {
	s.startKeg(5000)

	// Pours recorded outside the keg's nominal lifetime pin its bounds
	early := s.testTime.Add(-1 * time.Hour)
	late := s.testTime.Add(2 * time.Hour)
	s.pour("user-1", 100, early)
	s.pour("user-1", 100, late)

	out, err := s.service.EndKeg(s.ctx, &EndKegInput{TapID: "tap-1"})
	s.Require().NoError(err)
	s.Equal(early, out.Keg.StartTime)
	s.Equal(late, out.Keg.EndTime)
}

func (s *PourServiceTestSuite) TestSyncKegEventsIsIdempotent() {
	keg := s.startKeg(5000)

	// The tapped event was emitted by StartKeg; nothing new to derive
	synced, err := s.service.SyncKegEvents(s.ctx, &SyncKegEventsInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Empty(synced.Events)

	_, err = s.service.EndKeg(s.ctx, &EndKegInput{TapID: "tap-1"})
	s.Require().NoError(err)

	synced, err = s.service.SyncKegEvents(s.ctx, &SyncKegEventsInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Empty(synced.Events)
}

func (s *PourServiceTestSuite) TestSyncKegEventsBackfills() {
	// A keg written to the store out of band has no lifecycle events yet
	keg := &models.Keg{
		ID:           "imported-keg",
		FullVolumeML: 5000,
		StartTime:    s.testTime,
		EndTime:      s.testTime,
		Online:       true,
	}
	err := s.kegRepo.SaveKeg(s.ctx, &kegRepo.SaveKegInput{Keg: keg})
	s.Require().NoError(err)

	synced, err := s.service.SyncKegEvents(s.ctx, &SyncKegEventsInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Require().Len(synced.Events, 1)
	s.Equal(models.EventKegTapped, synced.Events[0].Kind)
	s.Equal(s.testTime, synced.Events[0].Time)

	synced, err = s.service.SyncKegEvents(s.ctx, &SyncKegEventsInput{KegID: keg.ID})
	s.Require().NoError(err)
	s.Empty(synced.Events)
}

func (s *PourServiceTestSuite) TestPourByKegIDWithoutTap() {
	keg := s.startKeg(5000)

	out, err := s.service.RecordPour(s.ctx, &RecordPourInput{
		KegID:    keg.ID,
		VolumeML: 100,
		UserID:   "user-1",
		Time:     s.testTime,
	})
	s.Require().NoError(err)
	s.Equal(keg.ID, out.Drink.KegID)
}

func (s *PourServiceTestSuite) TestZeroPourTimeUsesClock() {
	s.startKeg(5000)

	s.now = s.testTime.Add(45 * time.Minute)
	out, err := s.service.RecordPour(s.ctx, &RecordPourInput{
		TapID:    "tap-1",
		VolumeML: 100,
	})
	s.Require().NoError(err)
	s.Equal(s.now, out.Drink.Time)
}
