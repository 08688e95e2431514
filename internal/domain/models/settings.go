// internal/domain/models/settings.go
package models

// Preferred communication channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// NotificationSettings holds per-user opt-out flags plus the preferred
// channel. Flags are pointers so that "never set" and "explicitly true"
// both mean enabled; only an explicit false opts the user out. Fan-out
// reads these fresh from the user document every time, never from a cache.
type NotificationSettings struct {
	NewMemberInCommunity   *bool `bson:"notify_on_new_member_in_community,omitempty" json:"notify_on_new_member_in_community,omitempty"`
	NewPostInCommunity     *bool `bson:"notify_on_new_post_in_community,omitempty" json:"notify_on_new_post_in_community,omitempty"`
	PostLiked              *bool `bson:"notify_on_post_liked,omitempty" json:"notify_on_post_liked,omitempty"`
	PostPrayedFor          *bool `bson:"notify_on_post_prayed_for,omitempty" json:"notify_on_post_prayed_for,omitempty"`
	CommentOnMyPost        *bool `bson:"notify_on_comment_on_my_post,omitempty" json:"notify_on_comment_on_my_post,omitempty"`
	CommentOnCommentedPost *bool `bson:"notify_on_comment_on_commented_post,omitempty" json:"notify_on_comment_on_commented_post,omitempty"`

	PreferredCommunication string `bson:"preferred_communication,omitempty" json:"preferred_communication,omitempty"` // "sms" | "whatsapp"
}

func enabled(p *bool) bool { return p == nil || *p }

// NotifyOnNewMemberInCommunity reports whether the user accepts
// new-member notifications. Absent means enabled.
func (s NotificationSettings) NotifyOnNewMemberInCommunity() bool {
	return enabled(s.NewMemberInCommunity)
}

// NotifyOnNewPostInCommunity reports whether the user accepts new-post
// notifications.
func (s NotificationSettings) NotifyOnNewPostInCommunity() bool {
	return enabled(s.NewPostInCommunity)
}

// NotifyOnPostLiked reports whether the user accepts like notifications.
func (s NotificationSettings) NotifyOnPostLiked() bool { return enabled(s.PostLiked) }

// NotifyOnPostPrayedFor reports whether the user accepts prayed-for
// notifications.
func (s NotificationSettings) NotifyOnPostPrayedFor() bool { return enabled(s.PostPrayedFor) }

// NotifyOnCommentOnMyPost reports whether the user accepts comment
// notifications on their own posts.
func (s NotificationSettings) NotifyOnCommentOnMyPost() bool { return enabled(s.CommentOnMyPost) }

// NotifyOnCommentOnCommentedPost reports whether the user accepts
// notifications for threads they commented in.
func (s NotificationSettings) NotifyOnCommentOnCommentedPost() bool {
	return enabled(s.CommentOnCommentedPost)
}
