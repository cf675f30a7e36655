package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ProfilesColumns holds the columns for the "profiles" table.
	ProfilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "username", Type: field.TypeString, Default: ""},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "avatar_url", Type: field.TypeString, Default: ""},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "level", Type: field.TypeInt, Default: 1},
		{Name: "xp_to_next_level", Type: field.TypeInt, Default: 100},
		{Name: "total_xp", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 1},
		{Name: "messages_remaining", Type: field.TypeInt, Default: 150},
		{Name: "is_premium", Type: field.TypeBool, Default: false},
		{Name: "target_language", Type: field.TypeString, Size: 16, Default: ""},
		{Name: "last_practice_date", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ProfilesTable holds the schema information for the "profiles" table.
	ProfilesTable = &schema.Table{
		Name:       "profiles",
		Columns:    ProfilesColumns,
		PrimaryKey: []*schema.Column{ProfilesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "profile_total_xp", Unique: false, Columns: []*schema.Column{ProfilesColumns[7]}},
		},
	}

	// VocabularyColumns holds the columns for the "vocabulary" table.
	VocabularyColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "user_id", Type: field.TypeString, Size: 64},
		{Name: "word", Type: field.TypeString},
		{Name: "translation", Type: field.TypeString},
		{Name: "pronunciation", Type: field.TypeString, Default: ""},
		{Name: "part_of_speech", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString, Size: 16, Default: ""},
		{Name: "example", Type: field.TypeString, Default: ""},
		{Name: "mastery", Type: field.TypeInt, Default: 0},
		{Name: "times_seen", Type: field.TypeInt, Default: 0},
		{Name: "times_correct", Type: field.TypeInt, Default: 0},
		{Name: "last_practiced_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// VocabularyTable holds the schema information for the "vocabulary" table.
	VocabularyTable = &schema.Table{
		Name:       "vocabulary",
		Columns:    VocabularyColumns,
		PrimaryKey: []*schema.Column{VocabularyColumns[0]},
		Indexes: []*schema.Index{
			{Name: "vocabulary_user_id_word", Unique: true, Columns: []*schema.Column{VocabularyColumns[1], VocabularyColumns[2]}},
			{Name: "vocabulary_user_id_created_at", Unique: false, Columns: []*schema.Column{VocabularyColumns[1], VocabularyColumns[12]}},
		},
	}

	// GuildsColumns holds the columns for the "guilds" table.
	GuildsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "name", Type: field.TypeString, Unique: true, Size: 64},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "icon", Type: field.TypeString, Default: "🏰"},
		{Name: "leader_id", Type: field.TypeString, Size: 64},
		{Name: "total_xp", Type: field.TypeInt, Default: 0},
		{Name: "member_count", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
	// GuildsTable holds the schema information for the "guilds" table.
	GuildsTable = &schema.Table{
		Name:       "guilds",
		Columns:    GuildsColumns,
		PrimaryKey: []*schema.Column{GuildsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "guild_total_xp", Unique: false, Columns: []*schema.Column{GuildsColumns[5]}},
		},
	}

	// GuildMembersColumns holds the columns for the "guild_members" table.
	GuildMembersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "guild_id", Type: field.TypeString, Size: 36},
		{Name: "user_id", Type: field.TypeString, Unique: true, Size: 64},
		{Name: "role", Type: field.TypeString, Size: 16, Default: "member"},
		{Name: "joined_at", Type: field.TypeTime},
	}
	// GuildMembersTable holds the schema information for the "guild_members" table.
	GuildMembersTable = &schema.Table{
		Name:       "guild_members",
		Columns:    GuildMembersColumns,
		PrimaryKey: []*schema.Column{GuildMembersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "guild_members_guilds_members",
				Columns:    []*schema.Column{GuildMembersColumns[1]},
				RefColumns: []*schema.Column{GuildsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "guildmember_guild_id", Unique: false, Columns: []*schema.Column{GuildMembersColumns[1]}},
		},
	}

	// LoginRewardsColumns holds the columns for the "login_rewards" table.
	LoginRewardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "user_id", Type: field.TypeString, Size: 64},
		{Name: "login_date", Type: field.TypeString, Size: 10},
		{Name: "day_number", Type: field.TypeInt, Default: 1},
		{Name: "xp_reward", Type: field.TypeInt, Default: 0},
		{Name: "bonus_multiplier", Type: field.TypeFloat64, Default: 1.0},
		{Name: "claimed", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// LoginRewardsTable holds the schema information for the "login_rewards" table.
	LoginRewardsTable = &schema.Table{
		Name:       "login_rewards",
		Columns:    LoginRewardsColumns,
		PrimaryKey: []*schema.Column{LoginRewardsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "loginreward_user_id_login_date", Unique: true, Columns: []*schema.Column{LoginRewardsColumns[1], LoginRewardsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema, parents before children.
	Tables = []*schema.Table{
		ProfilesTable,
		VocabularyTable,
		GuildsTable,
		GuildMembersTable,
		LoginRewardsTable,
	}
)

func init() {
	GuildMembersTable.ForeignKeys[0].RefTable = GuildsTable
}
