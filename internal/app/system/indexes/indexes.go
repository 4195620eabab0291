// Package indexes creates the indexes the storage invariants depend on.
//
// Uniqueness the application logic relies on (one group per student, one
// preference per group+form, one session per group+phase, one active form
// per department, one rollout per department+phase) is enforced here so a
// race that slips past the read-then-write checks still cannot corrupt
// the data.
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Index creation is idempotent; errors are
// aggregated so every problem is visible and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(collection string, models []mongo.IndexModel) {
		if len(models) == 0 {
			return
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			problems = append(problems, collection+": "+err.Error())
		}
	}

	ensure("profiles", []mongo.IndexModel{
		uniq("uniq_profiles_email", bson.D{{Key: "email", Value: 1}}),
		idx("idx_profiles_dept_role", bson.D{{Key: "department", Value: 1}, {Key: "role", Value: 1}}),
	})

	ensure("groups", []mongo.IndexModel{
		uniq("uniq_groups_team_code", bson.D{{Key: "team_code", Value: 1}}),
		uniq("uniq_groups_display_id", bson.D{{Key: "display_id", Value: 1}}),
		idx("idx_groups_department", bson.D{{Key: "department", Value: 1}}),
	})

	ensure("group_members", []mongo.IndexModel{
		// One group per student.
		uniq("uniq_group_members_profile", bson.D{{Key: "profile_id", Value: 1}}),
		idx("idx_group_members_group", bson.D{{Key: "group_id", Value: 1}}),
	})

	ensure("group_counters", []mongo.IndexModel{
		uniq("uniq_group_counters_department", bson.D{{Key: "department", Value: 1}}),
	})

	ensure("mentor_forms", []mongo.IndexModel{
		// One active form per department; inactive history is unconstrained.
		{
			Keys: bson.D{{Key: "department", Value: 1}},
			Options: options.Index().
				SetName("uniq_mentor_forms_active_department").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
	})

	ensure("mentor_preferences", []mongo.IndexModel{
		uniq("uniq_mentor_preferences_group_form", bson.D{{Key: "group_id", Value: 1}, {Key: "form_id", Value: 1}}),
	})

	ensure("mentor_allocations", []mongo.IndexModel{
		uniq("uniq_mentor_allocations_group_form_mentor", bson.D{{Key: "group_id", Value: 1}, {Key: "form_id", Value: 1}, {Key: "mentor_id", Value: 1}}),
		idx("idx_mentor_allocations_mentor_status", bson.D{{Key: "mentor_id", Value: 1}, {Key: "status", Value: 1}}),
		idx("idx_mentor_allocations_group", bson.D{{Key: "group_id", Value: 1}}),
	})

	ensure("project_topics", []mongo.IndexModel{
		idx("idx_project_topics_group_status", bson.D{{Key: "group_id", Value: 1}, {Key: "status", Value: 1}}),
	})

	ensure("review_rollouts", []mongo.IndexModel{
		uniq("uniq_review_rollouts_dept_type", bson.D{{Key: "department", Value: 1}, {Key: "review_type", Value: 1}}),
	})

	ensure("review_sessions", []mongo.IndexModel{
		uniq("uniq_review_sessions_group_type", bson.D{{Key: "group_id", Value: 1}, {Key: "review_type", Value: 1}}),
	})

	ensure("topic_messages", []mongo.IndexModel{
		idx("idx_topic_messages_topic_created", bson.D{{Key: "topic_id", Value: 1}, {Key: "created_at", Value: 1}}),
		idx("idx_topic_messages_group_created", bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}}),
	})

	ensure("review_messages", []mongo.IndexModel{
		idx("idx_review_messages_session_created", bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}}),
	})

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}
