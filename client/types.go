package client

// Meeting is the collaborator's meeting record.
type Meeting struct {
	ID                string `json:"id"`
	MeetingTitle      string `json:"meeting_title"`
	HostID            string `json:"host_id"`
	Status            string `json:"status"`
	ParticipantsCount int    `json:"participants_count"`
	MaxParticipants   int    `json:"max_participants"`
	HasSummary        bool   `json:"has_summary"`
	TranscriptCount   int    `json:"transcript_count"`
	CreatedAt         string `json:"created_at"`
	StartedAt         string `json:"started_at,omitempty"`
	EndedAt           string `json:"ended_at,omitempty"`

	AudioFiles []AudioFile `json:"audio_files,omitempty"`
}

// Meeting status values used by the collaborator.
const (
	StatusWaiting = "waiting"
	StatusActive  = "active"
	StatusEnded   = "ended"
)

// TranscriptEntry is one recognized utterance within a meeting.
type TranscriptEntry struct {
	ID               string  `json:"id"`
	MeetingID        string  `json:"meeting_id"`
	SpeakerName      string  `json:"speaker_name"`
	TranscriptText   string  `json:"transcript_text"`
	TimestampSeconds float64 `json:"timestamp_seconds"`
	Confidence       float64 `json:"confidence"`
	CreatedAt        string  `json:"created_at"`
}

// AudioFile describes an uploaded recording attached to a meeting.
type AudioFile struct {
	ID              string  `json:"id"`
	MeetingID       string  `json:"meeting_id"`
	UserID          string  `json:"user_id"`
	FilePath        string  `json:"file_path"`
	FileSize        int64   `json:"file_size"`
	DurationSeconds float64 `json:"duration_seconds"`
	Format          string  `json:"format"`
	CreatedAt       string  `json:"created_at"`
}

// Summary is the AI-generated meeting summary.
type Summary struct {
	MeetingID       string   `json:"meeting_id"`
	SummaryText     string   `json:"summary_text"`
	ActionItems     []string `json:"action_items"`
	Keywords        []string `json:"keywords"`
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	WordCount       int      `json:"word_count,omitempty"`
	GeneratedAt     string   `json:"generated_at"`
}

// UploadResult is the collaborator's response to an audio upload.
type UploadResult struct {
	FileID          string  `json:"file_id"`
	FilePath        string  `json:"file_path"`
	FileSize        int64   `json:"file_size"`
	DurationSeconds float64 `json:"duration_seconds"`
	Format          string  `json:"format"`
	Message         string  `json:"message,omitempty"`
}

// CreateMeetingRequest creates a new meeting.
type CreateMeetingRequest struct {
	MeetingTitle    string `json:"meeting_title"`
	HostID          string `json:"host_id"`
	MaxParticipants int    `json:"max_participants,omitempty"`
}

// JoinMeetingRequest joins an existing meeting.
type JoinMeetingRequest struct {
	MeetingID string `json:"meeting_id"`
	UserID    string `json:"user_id"`
}

// GenerateSummaryRequest requests synchronous summary generation.
type GenerateSummaryRequest struct {
	MeetingID string `json:"meeting_id"`
}
