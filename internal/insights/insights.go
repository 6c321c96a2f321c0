package insights

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Aggregator derives the insight table for a listener from their full play
// history. It owns no state between invocations; every call to Aggregate
// builds a fresh accumulator set and discards it on return.
type Aggregator struct {
	events EventSource
	songs  SongResolver
}

func New(events EventSource, songs SongResolver) *Aggregator {
	return &Aggregator{events: events, songs: songs}
}

// Aggregate scans the listener's events once, in the order given, and
// returns the ordered insight rows. Returns ErrNoData when the listener has
// no events. A song id the resolver cannot satisfy, or a timestamp that
// doesn't parse, fails the whole aggregation: skipping silently would
// corrupt the counts.
func (a *Aggregator) Aggregate(listenerID string) ([]Insight, error) {
	events, err := a.events.FetchEvents(listenerID)
	if err != nil {
		return nil, fmt.Errorf("fetching events for %q: %w", listenerID, err)
	}
	if len(events) == 0 {
		return nil, ErrNoData
	}

	var (
		songCount   tally
		songTime    tally
		artistCount tally
		artistTime  tally
		genreCount  tally
		fridayCount tally
		fridayTime  tally
	)
	songDays := make(map[string]map[string]bool)
	allDays := make(map[string]bool)

	// Streak state. A streak is a maximal run of consecutive events with the
	// same song key, purely positional in the event list.
	var (
		streakKey     string
		streakLen     int
		maxStreak     int
		streakLeaders []string
		leaderSet     map[string]bool
	)

	resolved := make(map[string]SongInfo)

	for _, event := range events {
		song, ok := resolved[event.SongID]
		if !ok {
			song, err = a.songs.ResolveSong(event.SongID)
			if err != nil {
				return nil, fmt.Errorf("resolving song %q: %w", event.SongID, err)
			}
			resolved[event.SongID] = song
		}
		key := song.Key()

		when, err := parseTimestamp(event.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("event for song %q: %w", event.SongID, err)
		}

		songCount.Add(key, 1)
		songTime.Add(key, song.DurationSeconds)
		artistCount.Add(song.Artist, 1)
		artistTime.Add(song.Artist, song.DurationSeconds)
		genreCount.Add(song.Genre, 1)

		if isFridayNight(when) {
			fridayCount.Add(key, 1)
			fridayTime.Add(key, song.DurationSeconds)
		}

		day := when.Format("2006-01-02")
		if songDays[key] == nil {
			songDays[key] = make(map[string]bool)
		}
		songDays[key][day] = true
		allDays[day] = true

		if key == streakKey {
			streakLen++
		} else {
			streakKey = key
			streakLen = 1
		}
		if streakLen > maxStreak {
			maxStreak = streakLen
			streakLeaders = []string{key}
			leaderSet = map[string]bool{key: true}
		} else if streakLen == maxStreak && !leaderSet[key] {
			streakLeaders = append(streakLeaders, key)
			leaderSet[key] = true
		}
	}

	var results []Insight
	appendMax := func(question string, t *tally) {
		if key, _, ok := t.Max(); ok {
			results = append(results, Insight{Question: question, Answer: key})
		}
	}

	appendMax("Most listened song (count)", &songCount)
	appendMax("Most listened song (time)", &songTime)
	appendMax("Most listened artist (count)", &artistCount)
	appendMax("Most listened artist (time)", &artistTime)
	appendMax("Friday night song (count)", &fridayCount)
	appendMax("Friday night song (time)", &fridayTime)

	if maxStreak > 0 {
		results = append(results, Insight{
			Question: "Longest streak song",
			Answer:   fmt.Sprintf("%s (length: %d)", strings.Join(streakLeaders, ", "), maxStreak),
		})
	}

	if everyday := everydaySongs(songCount.Keys(), songDays, len(allDays)); len(everyday) > 0 {
		results = append(results, Insight{
			Question: "Every day songs",
			Answer:   strings.Join(everyday, ", "),
		})
	}

	if genres := topGenres(&genreCount, 3); len(genres) > 0 {
		question := fmt.Sprintf("Top %d Genres", len(genres))
		if len(genres) == 1 {
			question = "Top 1 Genre"
		}
		results = append(results, Insight{
			Question: question,
			Answer:   strings.Join(genres, ", "),
		})
	}

	return results, nil
}

// parseTimestamp handles both unix-seconds strings and RFC3339, the two
// formats listen imports carry.
func parseTimestamp(value string) (time.Time, error) {
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(seconds, 0), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}
	return t, nil
}

// isFridayNight reports whether t falls in the window Friday 17:00:00
// through Saturday 03:59:59, in the timestamp's own zone.
func isFridayNight(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday:
		return t.Hour() >= 17
	case time.Saturday:
		return t.Hour() < 4
	}
	return false
}

// everydaySongs returns, in first-seen order, the songs played on every
// distinct day the listener listened at all.
func everydaySongs(keys []string, songDays map[string]map[string]bool, totalDays int) []string {
	var result []string
	for _, key := range keys {
		if len(songDays[key]) == totalDays {
			result = append(result, key)
		}
	}
	return result
}

// topGenres returns up to limit genres sorted by play count descending.
// Equal counts keep first-seen order.
func topGenres(counts *tally, limit int) []string {
	genres := make([]string, len(counts.Keys()))
	copy(genres, counts.Keys())
	sort.SliceStable(genres, func(i, j int) bool {
		return counts.Get(genres[i]) > counts.Get(genres[j])
	})
	if len(genres) > limit {
		genres = genres[:limit]
	}
	return genres
}
