// Package memory is a process-local Store used by tests and by
// STORE_DRIVER=memory. A single mutex serializes every operation, which gives
// the same atomicity the Postgres transactions provide.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"artSparkAPI/internal/achievement"
	"artSparkAPI/internal/attempt"
	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/leaderboard"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"
	"artSparkAPI/internal/user"
	"artSparkAPI/internal/winner"
)

type submissionRow struct {
	sub      submission.Submission
	likes    map[string]time.Time
	comments []*submission.Comment
}

type Store struct {
	mu sync.Mutex

	challenges    map[string]challenge.DailyChallenge
	profiles      map[string]*user.Profile
	attempts      map[string]*attempt.Record
	submissions   map[string]*submissionRow
	byOwner       map[string]string // attempt.Key(uid, challengeID) -> submission id
	winners       map[string]winner.DailyWinner
	achievements  map[string]map[string]*achievement.UserAchievement
	notifications map[string][]*notification.Notification
	tokens        map[string]map[string]notification.DeviceToken
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		challenges:    make(map[string]challenge.DailyChallenge),
		profiles:      make(map[string]*user.Profile),
		attempts:      make(map[string]*attempt.Record),
		submissions:   make(map[string]*submissionRow),
		byOwner:       make(map[string]string),
		winners:       make(map[string]winner.DailyWinner),
		achievements:  make(map[string]map[string]*achievement.UserAchievement),
		notifications: make(map[string][]*notification.Notification),
		tokens:        make(map[string]map[string]notification.DeviceToken),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

// ---- challenges ----

func (s *Store) CreateChallengeIfAbsent(ctx context.Context, ch *challenge.DailyChallenge) (*challenge.DailyChallenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.challenges[ch.ID]; ok {
		return &existing, false, nil
	}
	s.challenges[ch.ID] = *ch
	out := *ch
	return &out, true, nil
}

func (s *Store) GetChallenge(ctx context.Context, id string) (*challenge.DailyChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ch, nil
}

func (s *Store) ListRecentChallenges(ctx context.Context, limit int) ([]*challenge.DailyChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*challenge.DailyChallenge, 0, len(s.challenges))
	for _, ch := range s.challenges {
		c := ch
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- profiles ----

func (s *Store) EnsureProfile(ctx context.Context, p *user.Profile) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.profiles[p.UID]; ok {
		return cloneProfile(existing), nil
	}
	s.profiles[p.UID] = cloneProfile(p)
	return cloneProfile(p), nil
}

func (s *Store) GetProfile(ctx context.Context, uid string) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (s *Store) UpdateIdentity(ctx context.Context, uid, displayName, photoURL string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return store.ErrNotFound
	}
	p.DisplayName = displayName
	p.PhotoURL = photoURL
	p.UpdatedAt = now
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, upd user.SubscriptionUpdate, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[upd.UID]
	if !ok {
		return store.ErrNotFound
	}
	p.Plan = upd.Plan
	switch {
	case upd.RenewsAt != nil:
		p.PlanRenewsAt = upd.RenewsAt
	case upd.Plan != user.PlanPro:
		p.PlanRenewsAt = nil
	}
	p.UpdatedAt = now
	return nil
}

func (s *Store) AddExtraAttempts(ctx context.Context, uid string, n int, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return 0, store.ErrNotFound
	}
	p.ExtraAttempts += n
	p.UpdatedAt = now
	return p.ExtraAttempts, nil
}

func (s *Store) ListLeaderboard(ctx context.Context, key leaderboard.SortKey, limit, offset int) ([]*leaderboard.LeaderboardEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*leaderboard.LeaderboardEntry, 0, len(s.profiles))
	for _, p := range s.profiles {
		entries = append(entries, &leaderboard.LeaderboardEntry{
			UserID:      p.UID,
			DisplayName: p.DisplayName,
			PhotoURL:    p.PhotoURL,
			Score:       leaderboardScore(p, key),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})

	total := len(entries)
	if offset >= total {
		return []*leaderboard.LeaderboardEntry{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := entries[offset:end]
	for i, e := range page {
		e.Rank = offset + i + 1
	}
	return page, total, nil
}

func leaderboardScore(p *user.Profile, key leaderboard.SortKey) int {
	switch key {
	case leaderboard.SortSubmissions:
		return p.TotalSubmissions
	case leaderboard.SortComments:
		return p.TotalComments
	case leaderboard.SortAchievements:
		return p.AchievementsCount
	default:
		return p.TotalLikes
	}
}

// ---- attempts ----

func (s *Store) RecordAttempt(ctx context.Context, uid, challengeID string, allowance attempt.Allowance, now time.Time) (*attempt.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attempt.Key(uid, challengeID)
	rec, ok := s.attempts[key]
	used := 0
	if ok {
		used = rec.AttemptsUsed
	}

	if used >= allowance.Base {
		p, hasProfile := s.profiles[uid]
		if !hasProfile || p.ExtraAttempts <= 0 {
			return nil, store.ErrAttemptCapReached
		}
		p.ExtraAttempts--
		p.UpdatedAt = now
	}

	if !ok {
		rec = &attempt.Record{
			ID:          key,
			UserID:      uid,
			ChallengeID: challengeID,
			CreatedAt:   now,
		}
		s.attempts[key] = rec
	}
	rec.AttemptsUsed++
	rec.LastAttemptAt = now

	out := *rec
	return &out, nil
}

func (s *Store) GetAttempt(ctx context.Context, uid, challengeID string) (*attempt.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.attempts[attempt.Key(uid, challengeID)]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *rec
	return &out, nil
}

// ---- submissions ----

func (s *Store) CreateSubmission(ctx context.Context, sub *submission.Submission) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attempt.Key(sub.UserID, sub.ChallengeID)
	if _, exists := s.byOwner[key]; exists {
		return 0, store.ErrAlreadySubmitted
	}

	s.submissions[sub.ID] = &submissionRow{
		sub:   *sub,
		likes: make(map[string]time.Time),
	}
	s.byOwner[key] = sub.ID

	if rec, ok := s.attempts[key]; ok {
		rec.HasSubmitted = true
	}

	total := 1
	if p, ok := s.profiles[sub.UserID]; ok {
		p.TotalSubmissions++
		p.UpdatedAt = sub.CreatedAt
		total = p.TotalSubmissions
	}
	return total, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*submission.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.submissions[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	out := row.sub
	out.Likes = make([]string, 0, len(row.likes))
	for uid := range row.likes {
		out.Likes = append(out.Likes, uid)
	}
	sort.Strings(out.Likes)
	out.Comments = make([]*submission.Comment, len(row.comments))
	for i, c := range row.comments {
		cc := *c
		out.Comments[i] = &cc
	}
	return &out, nil
}

func (s *Store) ListSubmissions(ctx context.Context, challengeID string, limit int) ([]*submission.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.rankedLocked(challengeID)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TopSubmission(ctx context.Context, challengeID string) (*submission.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := s.rankedLocked(challengeID)
	if len(ranked) == 0 {
		return nil, store.ErrNotFound
	}
	return ranked[0], nil
}

func (s *Store) rankedLocked(challengeID string) []*submission.Submission {
	out := make([]*submission.Submission, 0)
	for _, row := range s.submissions {
		if row.sub.ChallengeID != challengeID {
			continue
		}
		sub := row.sub
		out = append(out, &sub)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LikesCount != b.LikesCount {
			return a.LikesCount > b.LikesCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (s *Store) SubmissionDates(ctx context.Context, uid string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dates []time.Time
	for _, row := range s.submissions {
		if row.sub.UserID == uid {
			dates = append(dates, row.sub.CreatedAt)
		}
	}
	return dates, nil
}

func (s *Store) ToggleLike(ctx context.Context, submissionID, uid string, now time.Time) (*submission.LikeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.submissions[submissionID]
	if !ok {
		return nil, store.ErrNotFound
	}

	owner := s.profiles[row.sub.UserID]
	res := &submission.LikeResult{OwnerID: row.sub.UserID}

	if _, liked := row.likes[uid]; liked {
		delete(row.likes, uid)
		row.sub.LikesCount--
		if owner != nil && uid != row.sub.UserID && owner.TotalLikes > 0 {
			owner.TotalLikes--
		}
	} else {
		row.likes[uid] = now
		row.sub.LikesCount++
		res.Liked = true
		if owner != nil && uid != row.sub.UserID {
			owner.TotalLikes++
		}
	}
	res.NewCount = row.sub.LikesCount
	return res, nil
}

func (s *Store) AddComment(ctx context.Context, c *submission.Comment) (*submission.CommentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.submissions[c.SubmissionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	commenter, ok := s.profiles[c.UserID]
	if !ok {
		return nil, store.ErrNotFound
	}

	stored := *c
	row.comments = append(row.comments, &stored)
	row.sub.CommentsCount++
	commenter.TotalComments++
	commenter.UpdatedAt = c.CreatedAt

	out := *c
	return &submission.CommentResult{
		Comment:                &out,
		OwnerID:                row.sub.UserID,
		ChallengeID:            row.sub.ChallengeID,
		CommenterTotalComments: commenter.TotalComments,
	}, nil
}

func (s *Store) TagWinner(ctx context.Context, submissionID, date string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.submissions[submissionID]
	if !ok {
		return store.ErrNotFound
	}
	d := date
	t := at
	row.sub.WinnerDate = &d
	row.sub.WonAt = &t
	return nil
}

// ---- winners ----

func (s *Store) CreateDailyWinner(ctx context.Context, w *winner.DailyWinner) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.winners[w.Date]; exists {
		return false, nil
	}
	s.winners[w.Date] = *w
	return true, nil
}

func (s *Store) GetDailyWinner(ctx context.Context, date string) (*winner.DailyWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.winners[date]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &w, nil
}

func (s *Store) ListRecentWinners(ctx context.Context, limit int) ([]*winner.DailyWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*winner.DailyWinner, 0, len(s.winners))
	for _, w := range s.winners {
		ww := w
		out = append(out, &ww)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- achievements ----

func (s *Store) AwardAchievement(ctx context.Context, ua *achievement.UserAchievement) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held, ok := s.achievements[ua.UserID]
	if !ok {
		held = make(map[string]*achievement.UserAchievement)
		s.achievements[ua.UserID] = held
	}
	if _, exists := held[ua.ID]; exists {
		return false, nil
	}
	stored := *ua
	held[ua.ID] = &stored
	if p, ok := s.profiles[ua.UserID]; ok {
		p.AchievementsCount++
	}
	return true, nil
}

func (s *Store) ListUserAchievements(ctx context.Context, uid string) ([]*achievement.UserAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*achievement.UserAchievement, 0, len(s.achievements[uid]))
	for _, ua := range s.achievements[uid] {
		a := *ua
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnlockedAt.Before(out[j].UnlockedAt) })
	return out, nil
}

// ---- notifications ----

func (s *Store) CreateNotification(ctx context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *n
	s.notifications[n.UserID] = append(s.notifications[n.UserID], &stored)
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, uid string, limit, offset int) ([]*notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.notifications[uid]
	out := make([]*notification.Notification, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		n := *all[i]
		out = append(out, &n)
	}
	if offset >= len(out) {
		return []*notification.Notification{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountNotifications(ctx context.Context, uid string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unread := 0
	for _, n := range s.notifications[uid] {
		if !n.IsRead {
			unread++
		}
	}
	return unread, len(s.notifications[uid]), nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, uid, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[uid] {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, uid string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications[uid] {
		if !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (s *Store) UpsertDeviceToken(ctx context.Context, uid string, token notification.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, ok := s.tokens[uid]
	if !ok {
		tokens = make(map[string]notification.DeviceToken)
		s.tokens[uid] = tokens
	}
	if existing, ok := tokens[token.Token]; ok {
		token.AddedAt = existing.AddedAt
	}
	tokens[token.Token] = token
	return nil
}

func (s *Store) DeviceTokens(ctx context.Context, uid string) ([]notification.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]notification.DeviceToken, 0, len(s.tokens[uid]))
	for _, t := range s.tokens[uid] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

func cloneProfile(p *user.Profile) *user.Profile {
	out := *p
	return &out
}
