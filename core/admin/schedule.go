package admin

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mealmatch/mealmatch/core/profile"
)

type (
	// SlotUser is the profile summary listed under a time slot, annotated with
	// the session's matching group.
	SlotUser struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Group int       `json:"group"`
		Color string    `json:"color,omitempty"`
	}

	SlotNode struct {
		UserCount int        `json:"userCount"`
		Users     []SlotUser `json:"users"`
	}

	MealNode struct {
		UserCount int                  `json:"userCount"`
		TimeSlots map[string]*SlotNode `json:"timeSlots"`
	}

	DayNode struct {
		UserCount int                  `json:"userCount"`
		Meals     map[string]*MealNode `json:"meals"`
	}

	// ScheduleTree is the day -> meal -> time-slot aggregation over every
	// profile's availability, recomputed on demand.
	ScheduleTree map[string]*DayNode
)

// BuildScheduleTree scans every profile's meal-times document once.
//
// A profile counts once per day (first meal/slot hit), once per meal and once
// per slot: the level-wise double counting is intentional. A user with two
// slots in the same meal counts once for the meal and twice across slots.
// Profiles whose document fails to parse are skipped; the aggregation never
// aborts as a whole.
func BuildScheduleTree(profiles []profile.Profile, groups *Groups) ScheduleTree {
	tree := make(ScheduleTree)

	for _, p := range profiles {
		mt, err := p.MealTimes()
		if err != nil || len(mt) == 0 {
			continue
		}

		usr := SlotUser{ID: p.ID, Name: p.Name, Email: p.Email}
		if groups != nil {
			usr.Group = groups.Get(p.ID)
			usr.Color = GroupColor(usr.Group)
		}

		for day, meals := range mt {
			countedDay := false
			for meal, slots := range meals {
				if len(slots) == 0 {
					continue
				}

				dayNode := tree[day]
				if dayNode == nil {
					dayNode = &DayNode{Meals: make(map[string]*MealNode)}
					tree[day] = dayNode
				}
				if !countedDay {
					dayNode.UserCount++
					countedDay = true
				}

				mealNode := dayNode.Meals[meal]
				if mealNode == nil {
					mealNode = &MealNode{TimeSlots: make(map[string]*SlotNode)}
					dayNode.Meals[meal] = mealNode
				}
				mealNode.UserCount++

				for _, slot := range slots {
					slotNode := mealNode.TimeSlots[slot]
					if slotNode == nil {
						slotNode = &SlotNode{}
						mealNode.TimeSlots[slot] = slotNode
					}
					slotNode.UserCount++
					slotNode.Users = append(slotNode.Users, usr)
				}
			}
		}
	}

	for _, dayNode := range tree {
		for _, mealNode := range dayNode.Meals {
			for _, slotNode := range mealNode.TimeSlots {
				sortSlotUsers(slotNode.Users)
			}
		}
	}
	return tree
}

// sortSlotUsers orders matched users within a slot: ungrouped (group 0) after
// all grouped users, lower group number first, ties broken by name.
func sortSlotUsers(users []SlotUser) {
	sort.SliceStable(users, func(i, j int) bool {
		gi, gj := users[i].Group, users[j].Group
		if gi != gj {
			if gi == 0 {
				return false
			}
			if gj == 0 {
				return true
			}
			return gi < gj
		}
		return users[i].Name < users[j].Name
	})
}
