// Package seed holds the fixture records the platform starts with.
package seed

import (
	"time"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// Fixtures bundles every seed collection for store.New.
func Fixtures() store.Fixtures {
	return store.Fixtures{
		Users:        Users(),
		Resources:    Resources(),
		Appointments: Appointments(),
		Forum:        Forum(),
	}
}

// Users returns the static user directory.
func Users() []models.User {
	return []models.User{
		// Students
		{ID: "s1", Name: "Alex Chen", Role: models.RoleStudent, Email: "alex.chen@university.edu", Year: "Junior", Major: "Computer Science"},
		{ID: "s2", Name: "Sarah Williams", Role: models.RoleStudent, Email: "sarah.williams@university.edu", Year: "Sophomore", Major: "Psychology"},
		{ID: "s3", Name: "Marcus Johnson", Role: models.RoleStudent, Email: "marcus.johnson@university.edu", Year: "Senior", Major: "Business Administration"},

		// Counselors
		{
			ID: "c1", Name: "Dr. Emily Carter", Role: models.RoleCounselor, Email: "e.carter@university.edu",
			Specializations: []string{"Anxiety", "Stress Management", "Academic Pressure"},
			Experience:      "8 years",
			Bio:             "Specialized in helping students manage academic stress and anxiety. Passionate about mindfulness-based approaches.",
			Availability:    []string{"Monday", "Tuesday", "Wednesday", "Friday"},
		},
		{
			ID: "c2", Name: "Dr. Michael Rodriguez", Role: models.RoleCounselor, Email: "m.rodriguez@university.edu",
			Specializations: []string{"Depression", "Relationship Issues", "Self-Esteem"},
			Experience:      "12 years",
			Bio:             "Experienced in cognitive behavioral therapy and helping students build resilience and confidence.",
			Availability:    []string{"Tuesday", "Wednesday", "Thursday", "Friday"},
		},
		{
			ID: "c3", Name: "Dr. Lisa Thompson", Role: models.RoleCounselor, Email: "l.thompson@university.edu",
			Specializations: []string{"Career Counseling", "Life Transitions", "Goal Setting"},
			Experience:      "6 years",
			Bio:             "Focuses on helping students navigate career decisions and major life transitions with confidence.",
			Availability:    []string{"Monday", "Wednesday", "Thursday", "Friday"},
		},

		// Admin
		{ID: "a1", Name: "Admin User", Role: models.RoleAdmin, Email: "admin@university.edu", Department: "Student Wellness Services"},
	}
}

// Resources returns the initial resource library.
func Resources() []models.Resource {
	return []models.Resource{
		{ID: "r1", Title: "Guided Meditation for Sleep", Type: models.ResourceAudio, Category: "Sleep & Relaxation", Time: "15 minutes",
			Description: "A soothing guided meditation to help you unwind and prepare for restful sleep.", URL: "#",
			Tags: []string{"sleep", "meditation", "relaxation"}},
		{ID: "r2", Title: "Managing Test Anxiety", Type: models.ResourceArticle, Category: "Academic Support", Time: "8 minutes",
			Description: "Evidence-based strategies to reduce test anxiety and improve academic performance.", URL: "#",
			Tags: []string{"anxiety", "academics", "testing", "strategies"}},
		{ID: "r3", Title: "Breathing Exercises for Stress Relief", Type: models.ResourceVideo, Category: "Stress Management", Time: "10 minutes",
			Description: "Learn simple but effective breathing techniques to manage stress and anxiety.", URL: "#",
			Tags: []string{"breathing", "stress", "techniques", "quick-relief"}},
		{ID: "r4", Title: "Building Healthy Study Habits", Type: models.ResourceArticle, Category: "Academic Support", Time: "12 minutes",
			Description: "Comprehensive guide to developing sustainable and effective study routines.", URL: "#",
			Tags: []string{"study-habits", "productivity", "academics", "time-management"}},
		{ID: "r5", Title: "Mindfulness for Beginners", Type: models.ResourcePodcast, Category: "Mindfulness", Time: "25 minutes",
			Description: "Introduction to mindfulness practices that can be easily integrated into daily life.", URL: "#",
			Tags: []string{"mindfulness", "beginners", "daily-practice", "awareness"}},
		{ID: "r6", Title: "Coping with Homesickness", Type: models.ResourceArticle, Category: "Life Transitions", Time: "6 minutes",
			Description: "Practical advice for students dealing with homesickness and adjustment challenges.", URL: "#",
			Tags: []string{"homesickness", "adjustment", "coping", "support"}},
		{ID: "r7", Title: "Progressive Muscle Relaxation", Type: models.ResourceAudio, Category: "Stress Management", Time: "20 minutes",
			Description: "A guided session to help release physical tension and promote deep relaxation.", URL: "#",
			Tags: []string{"relaxation", "muscle-tension", "guided", "physical-wellness"}},
		{ID: "r8", Title: "Time Management Workshop", Type: models.ResourceVideo, Category: "Academic Support", Time: "45 minutes",
			Description: "Workshop covering proven time management techniques for busy students.", URL: "#",
			Tags: []string{"time-management", "productivity", "workshop", "planning"}},
	}
}

// Appointments returns the initial bookings.
func Appointments() []models.Appointment {
	return []models.Appointment{
		{ID: "apt1", StudentID: "s1", CounselorID: "c1", Date: "2024-09-15", Time: "10:00", Status: models.StatusConfirmed, Type: "individual", Notes: "Follow-up session on stress management techniques"},
		{ID: "apt2", StudentID: "s2", CounselorID: "c2", Date: "2024-09-16", Time: "14:00", Status: models.StatusPending, Type: "individual", Notes: "Initial consultation for relationship concerns"},
		{ID: "apt3", StudentID: "s1", CounselorID: "c3", Date: "2024-09-18", Time: "11:00", Status: models.StatusConfirmed, Type: "career-counseling", Notes: "Discussion about career path options in tech"},
		{ID: "apt4", StudentID: "s3", CounselorID: "c1", Date: "2024-09-20", Time: "15:30", Status: models.StatusPending, Type: "individual", Notes: "Academic pressure and time management"},
		{ID: "apt5", StudentID: "s2", CounselorID: "c3", Date: "2024-09-22", Time: "09:00", Status: models.StatusConfirmed, Type: "individual", Notes: "Life transitions and goal setting"},
	}
}

// Forum returns the initial forum threads with their replies.
func Forum() []models.ForumPost {
	return []models.ForumPost{
		{
			ID: "f1", AuthorID: "s1", AuthorName: "Alex C.",
			Title:     "Study Tips for Finals Week?",
			Content:   "Finals are coming up and I'm feeling overwhelmed. Does anyone have effective study strategies that have worked for them? Especially for managing multiple exams in a short period.",
			Timestamp: ts("2024-09-10T14:30:00Z"),
			Replies: []models.ForumReply{
				{ID: "r1", AuthorID: "s2", AuthorName: "Sarah W.", Timestamp: ts("2024-09-10T15:45:00Z"),
					Content: "I use the Pomodoro Technique! 25 minutes focused study, 5 minute break. It really helps me stay focused without burning out."},
				{ID: "r2", AuthorID: "s3", AuthorName: "Marcus J.", Timestamp: ts("2024-09-10T16:20:00Z"),
					Content: "Make a detailed schedule and stick to it. I also find that studying in different locations helps keep things fresh."},
			},
			Tags: []string{"studying", "finals", "time-management"},
		},
		{
			ID: "f2", AuthorID: "s2", AuthorName: "Sarah W.",
			Title:     "Dealing with Homesickness",
			Content:   "This is my first year away from home and I'm really struggling with homesickness. It's affecting my ability to focus on classes. How did others cope with this?",
			Timestamp: ts("2024-09-08T10:15:00Z"),
			Replies: []models.ForumReply{
				{ID: "r3", AuthorID: "s1", AuthorName: "Alex C.", Timestamp: ts("2024-09-08T11:30:00Z"),
					Content: "I went through the same thing! What helped me was establishing a routine and finding a community here. Also, scheduled video calls with family instead of random calls helped."},
			},
			Tags: []string{"homesickness", "adjustment", "first-year"},
		},
		{
			ID: "f3", AuthorID: "s3", AuthorName: "Marcus J.",
			Title:     "Balancing Work and Studies",
			Content:   "I'm working part-time while taking a full course load. Sometimes I feel like I'm falling behind in both areas. Any advice on finding the right balance?",
			Timestamp: ts("2024-09-05T20:45:00Z"),
			Replies: []models.ForumReply{
				{ID: "r4", AuthorID: "s2", AuthorName: "Sarah W.", Timestamp: ts("2024-09-06T08:15:00Z"),
					Content: "Time blocking has been a game changer for me. I dedicate specific hours to work and specific hours to study, with no overlap."},
			},
			Tags: []string{"work-life-balance", "time-management", "part-time-work"},
		},
	}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
