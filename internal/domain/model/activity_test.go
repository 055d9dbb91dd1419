package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/activities/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestActivity(t *testing.T) {
	convey.Convey("Given an activity with two participants", t, func() {
		a := model.Activity{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		}

		convey.Convey("When looking up participants", func() {
			convey.So(a.Has("daniel@mergington.edu"), convey.ShouldBeTrue)
			convey.So(a.IndexOf("daniel@mergington.edu"), convey.ShouldEqual, 1)

			convey.Convey("Then matching should be exact and case-sensitive", func() {
				convey.So(a.Has("Daniel@mergington.edu"), convey.ShouldBeFalse)
				convey.So(a.Has(" daniel@mergington.edu"), convey.ShouldBeFalse)
				convey.So(a.IndexOf("nobody@mergington.edu"), convey.ShouldEqual, -1)
			})
		})

		convey.Convey("When cloning", func() {
			c := a.Clone()
			c.Participants[0] = "changed@mergington.edu"

			convey.Convey("Then the original should be untouched", func() {
				convey.So(a.Participants[0], convey.ShouldEqual, "michael@mergington.edu")
			})
		})

		convey.Convey("When computing spots left", func() {
			convey.So(a.SpotsLeft(), convey.ShouldEqual, 10)

			over := model.Activity{Name: "Tiny", MaxParticipants: 1, Participants: []string{"a@x", "b@x"}}
			convey.So(over.SpotsLeft(), convey.ShouldEqual, -1)
		})

		convey.Convey("When rendering the listing view as JSON", func() {
			raw, err := json.Marshal(a.View())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should use the documented field names", func() {
				var m map[string]any
				convey.So(json.Unmarshal(raw, &m), convey.ShouldBeNil)
				convey.So(m, convey.ShouldContainKey, "description")
				convey.So(m, convey.ShouldContainKey, "schedule")
				convey.So(m["max_participants"], convey.ShouldEqual, 12)
				convey.So(m["participants"], convey.ShouldHaveLength, 2)
				convey.So(m, convey.ShouldNotContainKey, "Name")
			})
		})

		convey.Convey("When an activity has no participants", func() {
			empty := model.Activity{Name: "Empty"}
			raw, err := json.Marshal(empty.View())

			convey.Convey("Then participants should encode as an empty list", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldContainSubstring, `"participants":[]`)
			})
		})
	})
}

func TestActivityValidate(t *testing.T) {
	convey.Convey("Given activities to validate", t, func() {
		convey.So(model.Activity{Name: "Chess Club", MaxParticipants: 2}.Validate(), convey.ShouldBeNil)

		convey.So(model.Activity{Name: "  "}.Validate(), convey.ShouldNotBeNil)
		convey.So(model.Activity{Name: "X", MaxParticipants: -1}.Validate(), convey.ShouldNotBeNil)
		convey.So(model.Activity{Name: "X", Participants: []string{""}}.Validate(), convey.ShouldNotBeNil)

		err := model.Activity{Name: "X", Participants: []string{"a@x", "a@x"}}.Validate()
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "listed twice")
	})
}
