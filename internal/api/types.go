package api

// User is the account record returned by GET /users/user/.
type User struct {
	ID               int    `json:"id,omitempty"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	TransferType     string `json:"transfer_type"` // high_school, transfer, graduate or empty
	Role             string `json:"role,omitempty"`
	IsSchoolVerified bool   `json:"is_school_verified"`
	ProfilePicture   string `json:"profile_picture"`
	CreatedAt        string `json:"created_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

// LoginRequest carries credentials for POST /users/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the token pair issued on login. The backend also echoes
// the user's name for extra validation.
type LoginResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignupRequest carries the fields for POST /users/signup/.
type SignupRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	TransferType string `json:"transfer_type,omitempty"`
}

// UserUpdate holds the mutable account fields for PATCH /users/user/.
// Nil fields are omitted and left unchanged server-side.
type UserUpdate struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	TransferType *string `json:"transfer_type,omitempty"`
}

// School is a school record from the public or protected school lists.
type School struct {
	ID              int      `json:"id"`
	SchoolName      string   `json:"school_name"`
	MBB             bool     `json:"mbb"`
	WBB             bool     `json:"wbb"`
	FB              bool     `json:"fb"`
	Conference      string   `json:"conference"`
	Location        string   `json:"location"`
	AvailableSports []string `json:"available_sports,omitempty"`
	Reviews         []Review `json:"reviews,omitempty"`
}

// Review is a single program review with its eight 1-10 category ratings.
type Review struct {
	ID                 int    `json:"id,omitempty"`
	ReviewID           string `json:"review_id,omitempty"`
	School             int    `json:"school,omitempty"`
	Sport              string `json:"sport"`
	HeadCoachName      string `json:"head_coach_name"`
	ReviewMessage      string `json:"review_message"`
	HeadCoach          int    `json:"head_coach"`
	AssistantCoaches   int    `json:"assistant_coaches"`
	TeamCulture        int    `json:"team_culture"`
	CampusLife         int    `json:"campus_life"`
	AthleticFacilities int    `json:"athletic_facilities"`
	AthleticDepartment int    `json:"athletic_department"`
	PlayerDevelopment  int    `json:"player_development"`
	NILOpportunity     int    `json:"nil_opportunity"`
	CoachHistory       string `json:"coach_history,omitempty"`
	IsNoLongerAtSchool bool   `json:"is_no_longer_at_school,omitempty"`
	HelpfulCount       int    `json:"helpful_count,omitempty"`
	UnhelpfulCount     int    `json:"unhelpful_count,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// ReviewSummary is the AI-generated digest for a school and sport.
type ReviewSummary struct {
	Summary string `json:"summary"`
}

// VoteResponse is returned by the review vote endpoint. Vote is nil when the
// caller's vote was toggled off.
type VoteResponse struct {
	Vote           *int `json:"vote"`
	HelpfulCount   int  `json:"helpful_count"`
	UnhelpfulCount int  `json:"unhelpful_count"`
}

// Preferences holds a user's preference weights for the recommendation engine.
type Preferences struct {
	ID                 int    `json:"id,omitempty"`
	PreferenceID       string `json:"preference_id,omitempty"`
	Sport              string `json:"sport"`
	HeadCoach          int    `json:"head_coach"`
	AssistantCoaches   int    `json:"assistant_coaches"`
	TeamCulture        int    `json:"team_culture"`
	CampusLife         int    `json:"campus_life"`
	AthleticFacilities int    `json:"athletic_facilities"`
	AthleticDepartment int    `json:"athletic_department"`
	PlayerDevelopment  int    `json:"player_development"`
	NILOpportunity     int    `json:"nil_opportunity"`
}

// Recommendations is returned by GET /api/recommendations/.
type Recommendations struct {
	NoPreferences   bool     `json:"no_preferences,omitempty"`
	Recommendations []School `json:"recommendations,omitempty"`
}

// SchoolFilter holds the query parameters for GET /api/filter/.
// Rating fields are minimums; zero means "not filtered".
type SchoolFilter struct {
	SchoolName         string
	Coach              string
	Sport              string
	HeadCoach          int
	AssistantCoaches   int
	TeamCulture        int
	CampusLife         int
	AthleticFacilities int
	AthleticDepartment int
	PlayerDevelopment  int
	NILOpportunity     int
}
