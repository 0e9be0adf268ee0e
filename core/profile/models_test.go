package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmatch/mealmatch/core/profile"
	testutil "github.com/mealmatch/mealmatch/tests"
)

func newStep1() profile.Step1 {
	return profile.Step1{
		FirstName: "Jo",
		LastName:  "Lee",
		Email:     "jlee@brandeis.edu",
		Phone:     "555-0101",
	}
}

func newStep2() profile.Step2 {
	return profile.Step2{
		ClassLevel: profile.ClassSenior,
		Majors:     []string{"Computer Science"},
	}
}

func Test_Step1_Validate(t *testing.T) {
	conf := testutil.NewConfig()
	validate, _ := testutil.NewValidator(conf)

	tests := []struct {
		name    string
		mutate  func(*profile.Step1)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *profile.Step1) {}},
		{name: "missing first name", mutate: func(s *profile.Step1) { s.FirstName = "  " }, wantErr: true},
		{name: "missing last name", mutate: func(s *profile.Step1) { s.LastName = "" }, wantErr: true},
		{name: "not an email", mutate: func(s *profile.Step1) { s.Email = "nope" }, wantErr: true},
		{name: "non-edu email rejected", mutate: func(s *profile.Step1) { s.Email = "jlee@gmail.com" }, wantErr: true},
		{name: "edu email accepted", mutate: func(s *profile.Step1) { s.Email = "Someone@Brandeis.EDU" }},
		{name: "phone is optional", mutate: func(s *profile.Step1) { s.Phone = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStep1()
			tt.mutate(&s)
			err := s.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Step1_Validate_cleansInput(t *testing.T) {
	conf := testutil.NewConfig()
	validate, _ := testutil.NewValidator(conf)

	s := profile.Step1{FirstName: "  Jo ", LastName: " Lee ", Email: " JLee@Brandeis.edu "}
	require.NoError(t, s.Validate(validate))
	assert.Equal(t, "Jo", s.FirstName)
	assert.Equal(t, "Lee", s.LastName)
	assert.Equal(t, "jlee@brandeis.edu", s.Email)
}

func Test_Step2_Validate(t *testing.T) {
	conf := testutil.NewConfig()
	validate, _ := testutil.NewValidator(conf)

	tests := []struct {
		name    string
		mutate  func(*profile.Step2)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *profile.Step2) {}},
		{name: "unknown class level", mutate: func(s *profile.Step2) { s.ClassLevel = "superSenior" }, wantErr: true},
		{name: "class level case-insensitive", mutate: func(s *profile.Step2) { s.ClassLevel = "Senior" }},
		{name: "no majors", mutate: func(s *profile.Step2) { s.Majors = nil }, wantErr: true},
		{name: "empty major", mutate: func(s *profile.Step2) { s.Majors = []string{""} }, wantErr: true},
		{name: "interests optional", mutate: func(s *profile.Step2) { s.Interests = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStep2()
			tt.mutate(&s)
			err := s.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_NewProfile_Validate(t *testing.T) {
	conf := testutil.NewConfig()
	validate, _ := testutil.NewValidator(conf)

	valid := func() profile.NewProfile {
		return profile.NewProfile{Step1: newStep1(), Step2: newStep2()}
	}

	t.Run("minimal profile is valid", func(t *testing.T) {
		np := valid()
		assert.NoError(t, np.Validate(validate))
	})

	t.Run("unknown enum value rejected", func(t *testing.T) {
		np := valid()
		np.PersonalityType = "omnivert"
		assert.Error(t, np.Validate(validate))
	})

	t.Run("guest swipe requires meal plan", func(t *testing.T) {
		np := valid()
		np.MealPlan = false
		np.GuestSwipe = true
		require.NoError(t, np.Validate(validate))
		assert.False(t, np.GuestSwipe)
	})

	t.Run("guest swipe kept with meal plan", func(t *testing.T) {
		np := valid()
		np.MealPlan = true
		np.GuestSwipe = true
		require.NoError(t, np.Validate(validate))
		assert.True(t, np.GuestSwipe)
	})

	t.Run("meal times with unknown day rejected", func(t *testing.T) {
		np := valid()
		np.MealTimes = profile.MealTimes{"funday": {"dinner": {"6:00-6:30 PM"}}}
		assert.Error(t, np.Validate(validate))
	})

	t.Run("meal times with unknown meal rejected", func(t *testing.T) {
		np := valid()
		np.MealTimes = profile.MealTimes{"monday": {"brunch": {"11:00-11:30 AM"}}}
		assert.Error(t, np.Validate(validate))
	})

	t.Run("valid meal times accepted", func(t *testing.T) {
		np := valid()
		np.MealTimes = profile.MealTimes{
			"monday":   {"dinner": {"6:00-6:30 PM", "6:30-7:00 PM"}},
			"thursday": {"lunch": {"12:00-12:30 PM"}},
		}
		assert.NoError(t, np.Validate(validate))
	})
}

func Test_ParseMealTimes(t *testing.T) {
	mt, err := profile.ParseMealTimes(nil)
	require.NoError(t, err)
	assert.Nil(t, mt)

	mt, err = profile.ParseMealTimes([]byte(`{"monday":{"dinner":["6:00-6:30 PM"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"6:00-6:30 PM"}, mt["monday"]["dinner"])

	_, err = profile.ParseMealTimes([]byte(`{"monday":"oops"}`))
	assert.Error(t, err)
}
