package repository_test

import (
	"testing"

	"github.com/dgraph-io/badger/v3"

	"github.com/okian/harrier/internal/adapters/repository"
	"github.com/okian/harrier/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openJournal(t *testing.T) *repository.BadgerJournal {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewBadgerJournal(db)
}

func TestBadgerJournal(t *testing.T) {
	Convey("Given an empty journal", t, func() {
		journal := openJournal(t)

		Convey("Then loading returns nothing", func() {
			outcomes, err := journal.Load()
			So(err, ShouldBeNil)
			So(outcomes, ShouldBeEmpty)
		})

		Convey("When outcomes from two races are recorded", func() {
			first := model.DualOutcome{
				ID: "o1", RaceID: "race1",
				WinnerID: "t1", LoserID: "t2",
				WinnerScore: 25, LoserScore: 30,
			}
			second := model.DualOutcome{
				ID: "o2", RaceID: "race2",
				WinnerID: "t3", LoserID: "t4",
				WinnerScore: 27, LoserScore: 28,
			}
			So(journal.Record(first), ShouldBeNil)
			So(journal.Record(second), ShouldBeNil)

			Convey("Then loading returns both, intact", func() {
				outcomes, err := journal.Load()
				So(err, ShouldBeNil)
				So(outcomes, ShouldHaveLength, 2)

				byID := make(map[string]model.DualOutcome)
				for _, o := range outcomes {
					byID[o.ID] = o
				}
				So(byID["o1"], ShouldResemble, first)
				So(byID["o2"], ShouldResemble, second)
			})

			Convey("Then re-recording the same outcome stays one entry", func() {
				first.WinnerScore = 24
				So(journal.Record(first), ShouldBeNil)

				outcomes, err := journal.Load()
				So(err, ShouldBeNil)
				So(outcomes, ShouldHaveLength, 2)
			})

			Convey("And erasing one race leaves the other", func() {
				So(journal.Erase("race1"), ShouldBeNil)

				outcomes, err := journal.Load()
				So(err, ShouldBeNil)
				So(outcomes, ShouldHaveLength, 1)
				So(outcomes[0].ID, ShouldEqual, "o2")
			})
		})
	})
}
