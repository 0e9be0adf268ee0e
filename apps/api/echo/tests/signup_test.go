package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mealmatch/mealmatch/core/profile"
	emailsvc "github.com/mealmatch/mealmatch/services/email"
)

func validSubmission() map[string]interface{} {
	return map[string]interface{}{
		"first_name":  "Jo",
		"last_name":   "Lee",
		"email":       "jlee@brandeis.edu",
		"phone":       "555-0101",
		"class_level": "senior",
		"majors":      []string{"Computer Science"},
		"interests":   []string{"hiking"},
		"hp_house":    "ravenclaw",
		"meal_plan":   true,
		"guest_swipe": true,
		"meal_times": map[string]interface{}{
			"thursday": map[string][]string{"dinner": {"6:00-6:30 PM"}},
		},
	}
}

func Test_signupApi_create(t *testing.T) {
	resetState(t)
	emailsvc.ClearSentMessages()

	t.Run("valid submission", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/profiles", marchallObj(t, validSubmission()))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body = %v", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var p profile.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if p.Name != "Jo Lee" {
			t.Errorf("name = %q; want %q", p.Name, "Jo Lee")
		}
		if p.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Error("id was not assigned")
		}
		if p.CreatedAt.IsZero() {
			t.Error("created_at was not assigned")
		}

		// a confirmation email was sent
		msgs := emailsvc.LastSentMessages()
		if len(msgs) != 1 {
			t.Fatalf("sent emails = %d; want 1", len(msgs))
		}
		if msgs[0].To[0].Address != "jlee@brandeis.edu" {
			t.Errorf("email to = %q", msgs[0].To[0].Address)
		}
	})

	t.Run("resubmission creates a second row", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/profiles", marchallObj(t, validSubmission()))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body = %v", rec.Code, rec.Body.String())
		}
		all, err := profileRepo.QueryAllProfiles(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 {
			t.Errorf("profiles = %d; want 2", len(all))
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		bad := validSubmission()
		bad["email"] = "jlee@gmail.com"
		badEnum := validSubmission()
		badEnum["hp_house"] = "hogwarts"
		noMajors := validSubmission()
		noMajors["majors"] = []string{}

		tests := []httpTest{
			{name: "non-edu email", body: marchallObj(t, bad), wantCode: http.StatusBadRequest},
			{name: "unknown enum", body: marchallObj(t, badEnum), wantCode: http.StatusBadRequest},
			{name: "no majors", body: marchallObj(t, noMajors), wantCode: http.StatusBadRequest},
			{name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newRequest(http.MethodPost, "/v1/profiles", tt.body)
				app.ServeHTTP(rec, req)
				checkCodeAndData(t, tt, rec)
			})
		}
	})
}

func Test_signupApi_validateStep(t *testing.T) {
	resetState(t)

	tests := []httpTest{
		{
			name: "step 1 valid", wantCode: http.StatusOK,
			body:     marchallObj(t, map[string]interface{}{"step": 1, "data": map[string]string{"first_name": "Jo", "last_name": "Lee", "email": "jlee@brandeis.edu"}}),
			wantData: []byte(`{"valid":true}`),
		},
		{
			name: "step 1 invalid email", wantCode: http.StatusBadRequest,
			body: marchallObj(t, map[string]interface{}{"step": 1, "data": map[string]string{"first_name": "Jo", "last_name": "Lee", "email": "jlee@gmail.com"}}),
		},
		{
			name: "step 2 valid", wantCode: http.StatusOK,
			body:     marchallObj(t, map[string]interface{}{"step": 2, "data": map[string]interface{}{"class_level": "junior", "majors": []string{"Art"}}}),
			wantData: []byte(`{"valid":true}`),
		},
		{
			name: "step 2 missing majors", wantCode: http.StatusBadRequest,
			body: marchallObj(t, map[string]interface{}{"step": 2, "data": map[string]interface{}{"class_level": "junior"}}),
		},
		{
			name: "unknown step", wantCode: http.StatusBadRequest,
			body: marchallObj(t, map[string]interface{}{"step": 3, "data": map[string]string{}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/profiles/validate-step", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// nothing was written
	all, err := profileRepo.QueryAllProfiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("profiles = %d; want 0", len(all))
	}
}

func Test_signupApi_createFeedback(t *testing.T) {
	resetState(t)

	tests := []httpTest{
		{name: "valid", body: marchallObj(t, map[string]string{"text": "great idea"}), wantCode: http.StatusCreated},
		{name: "empty text", body: marchallObj(t, map[string]string{"text": ""}), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/feedback", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
