package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// CourseGradeStat is one row of the per-course grade aggregate used by
// the admin dashboard. Min/Max/Average are nil when the course has no
// grades, which is a different thing from zero.
type CourseGradeStat struct {
	CourseID   string   `db:"course_id" json:"course_id"`
	GradeCount int64    `db:"grade_count" json:"grade_count"`
	Min        *float64 `db:"min_value" json:"min"`
	Max        *float64 `db:"max_value" json:"max"`
	Average    *float64 `db:"avg_value" json:"average"`
}
