package course

import (
	"context"
	"database/sql"

	domainCourse "github.com/roach88/journey/internal/domain/course"
)

// Store is the sqlite-backed implementation of the course Store contract.
// All merges run inside one transaction; readers observe either fully
// pre-merge or fully post-merge state.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertCourses merges courses in one transaction. On conflict the name is
// overwritten; colour and icon only when the new data carries them, so a
// rename does not wipe local-only decoration.
func (s *Store) UpsertCourses(ctx context.Context, courses []domainCourse.Course) error {
	return s.inTx(ctx, "upsert_courses", func(tx *sql.Tx) error {
		for _, c := range courses {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO course (id, name, colour, icon)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name   = excluded.name,
					colour = COALESCE(excluded.colour, course.colour),
					icon   = COALESCE(excluded.icon, course.icon)
			`, c.ID, c.Name, c.Colour, c.Icon); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertCourseState merges one course's sections and modules, parents before
// children. A stub course row is created if the course itself has not been
// mirrored yet, keeping the section foreign key satisfiable.
func (s *Store) UpsertCourseState(ctx context.Context, courseID int64, sections []domainCourse.CourseSection, modules []domainCourse.SectionModule) error {
	return s.inTx(ctx, "upsert_course_state", func(tx *sql.Tx) error {
		if err := ensureCourseStub(ctx, tx, courseID); err != nil {
			return err
		}
		for _, sec := range sections {
			if err := upsertSection(ctx, tx, sec); err != nil {
				return err
			}
		}
		for _, mod := range modules {
			if err := upsertModule(ctx, tx, mod); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertModuleContent merges one module with its contents and blob records.
func (s *Store) UpsertModuleContent(ctx context.Context, courseID int64, section domainCourse.CourseSection, module domainCourse.SectionModule, contents []domainCourse.ModuleContent, blobs []domainCourse.ContentBlob) error {
	return s.inTx(ctx, "upsert_module_content", func(tx *sql.Tx) error {
		if err := ensureCourseStub(ctx, tx, courseID); err != nil {
			return err
		}
		if err := upsertSection(ctx, tx, section); err != nil {
			return err
		}
		if err := upsertModule(ctx, tx, module); err != nil {
			return err
		}
		for _, content := range contents {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO module_content (id, module_id, rank, updated_at, content)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id, module_id) DO UPDATE SET
					rank       = excluded.rank,
					updated_at = excluded.updated_at,
					content    = excluded.content
			`, content.ID, content.ModuleID, content.Rank, content.UpdatedAt, content.Content); err != nil {
				return err
			}
		}
		for _, b := range blobs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO content_blob (module_id, name, mime_type, path, updated_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(module_id, name) DO UPDATE SET
					mime_type  = excluded.mime_type,
					path       = excluded.path,
					updated_at = excluded.updated_at
			`, b.ModuleID, b.Name, b.MimeType, b.Path, b.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Courses(ctx context.Context) ([]domainCourse.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, colour, icon
		FROM course
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_courses", Cause: err}
	}
	defer rows.Close()

	courses := []domainCourse.Course{}
	for rows.Next() {
		var c domainCourse.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Colour, &c.Icon); err != nil {
			return nil, domainCourse.StorageErr{Op: "read_courses", Cause: err}
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domainCourse.StorageErr{Op: "read_courses", Cause: err}
	}
	return courses, nil
}

func (s *Store) CourseWithSections(ctx context.Context, courseID int64, allowed []domainCourse.ModuleType) (*domainCourse.CourseWithSections, error) {
	var c domainCourse.Course
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, colour, icon FROM course WHERE id = ?
	`, courseID).Scan(&c.ID, &c.Name, &c.Colour, &c.Icon)
	if err == sql.ErrNoRows {
		return nil, domainCourse.NotFound{Kind: "course", ID: courseID}
	}
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_course", Cause: err}
	}

	sections, err := s.sectionsOf(ctx, courseID)
	if err != nil {
		return nil, err
	}

	allowedSet := make(map[domainCourse.ModuleType]bool, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = true
	}

	view := &domainCourse.CourseWithSections{Course: c, Sections: []domainCourse.SectionWithModules{}}
	for _, sec := range sections {
		modules, err := s.modulesOf(ctx, sec.ID)
		if err != nil {
			return nil, err
		}
		filtered := []domainCourse.SectionModule{}
		for _, m := range modules {
			if allowedSet[m.ModuleType] {
				filtered = append(filtered, m)
			}
		}
		view.Sections = append(view.Sections, domainCourse.SectionWithModules{Section: sec, Modules: filtered})
	}
	return view, nil
}

func (s *Store) ModuleWithContents(ctx context.Context, courseID int64, moduleID int64) (*domainCourse.ModuleWithContents, error) {
	module, err := s.moduleOfCourse(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, module_id, rank, updated_at, content
		FROM module_content
		WHERE module_id = ?
		ORDER BY rank ASC, id ASC
	`, moduleID)
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_module_content", Cause: err}
	}
	defer rows.Close()

	contents := []domainCourse.ModuleContent{}
	for rows.Next() {
		var mc domainCourse.ModuleContent
		if err := rows.Scan(&mc.ID, &mc.ModuleID, &mc.Rank, &mc.UpdatedAt, &mc.Content); err != nil {
			return nil, domainCourse.StorageErr{Op: "read_module_content", Cause: err}
		}
		contents = append(contents, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, domainCourse.StorageErr{Op: "read_module_content", Cause: err}
	}
	return &domainCourse.ModuleWithContents{Module: *module, Contents: contents}, nil
}

func (s *Store) ContentBlobs(ctx context.Context, courseID int64, moduleID int64) ([]domainCourse.ContentBlob, error) {
	if _, err := s.moduleOfCourse(ctx, courseID, moduleID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT module_id, name, mime_type, path, updated_at
		FROM content_blob
		WHERE module_id = ?
		ORDER BY name ASC
	`, moduleID)
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_content_blobs", Cause: err}
	}
	defer rows.Close()

	blobs := []domainCourse.ContentBlob{}
	for rows.Next() {
		var b domainCourse.ContentBlob
		var mime sql.NullString
		if err := rows.Scan(&b.ModuleID, &b.Name, &mime, &b.Path, &b.UpdatedAt); err != nil {
			return nil, domainCourse.StorageErr{Op: "read_content_blobs", Cause: err}
		}
		b.MimeType = mime.String
		blobs = append(blobs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domainCourse.StorageErr{Op: "read_content_blobs", Cause: err}
	}
	return blobs, nil
}

// inTx runs f inside a transaction, rolling back on any error so a failed
// merge never leaves partial rows behind.
func (s *Store) inTx(ctx context.Context, op string, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domainCourse.StorageErr{Op: op, Cause: err}
	}
	if err := f(tx); err != nil {
		_ = tx.Rollback()
		return domainCourse.StorageErr{Op: op, Cause: err}
	}
	if err := tx.Commit(); err != nil {
		return domainCourse.StorageErr{Op: op, Cause: err}
	}
	return nil
}

// ensureCourseStub guarantees the parent course row exists before sections
// reference it. A stub never overwrites real data.
func ensureCourseStub(ctx context.Context, tx *sql.Tx, courseID int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO course (id, name) VALUES (?, '')
		ON CONFLICT(id) DO NOTHING
	`, courseID)
	return err
}

func upsertSection(ctx context.Context, tx *sql.Tx, sec domainCourse.CourseSection) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO course_section (id, course_id, name, rank)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			course_id = excluded.course_id,
			name      = excluded.name,
			rank      = excluded.rank
	`, sec.ID, sec.CourseID, sec.Name, sec.Rank)
	return err
}

// The section fetch carries no module timestamps, so an updated_at of zero
// preserves whatever a previous content sync recorded.
func upsertModule(ctx context.Context, tx *sql.Tx, mod domainCourse.SectionModule) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO section_module (id, section_id, name, module_type, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			section_id  = excluded.section_id,
			name        = excluded.name,
			module_type = excluded.module_type,
			updated_at  = CASE WHEN excluded.updated_at = 0
			              THEN section_module.updated_at
			              ELSE excluded.updated_at END
	`, mod.ID, mod.SectionID, mod.Name, string(mod.ModuleType), mod.UpdatedAt)
	return err
}

func (s *Store) sectionsOf(ctx context.Context, courseID int64) ([]domainCourse.CourseSection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, name, rank
		FROM course_section
		WHERE course_id = ?
		ORDER BY rank ASC, id ASC
	`, courseID)
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_sections", Cause: err}
	}
	defer rows.Close()

	sections := []domainCourse.CourseSection{}
	for rows.Next() {
		var sec domainCourse.CourseSection
		if err := rows.Scan(&sec.ID, &sec.CourseID, &sec.Name, &sec.Rank); err != nil {
			return nil, domainCourse.StorageErr{Op: "read_sections", Cause: err}
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, domainCourse.StorageErr{Op: "read_sections", Cause: err}
	}
	return sections, nil
}

func (s *Store) modulesOf(ctx context.Context, sectionID int64) ([]domainCourse.SectionModule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, section_id, name, module_type, updated_at
		FROM section_module
		WHERE section_id = ?
		ORDER BY id ASC
	`, sectionID)
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_modules", Cause: err}
	}
	defer rows.Close()

	modules := []domainCourse.SectionModule{}
	for rows.Next() {
		var m domainCourse.SectionModule
		var moduleType string
		if err := rows.Scan(&m.ID, &m.SectionID, &m.Name, &moduleType, &m.UpdatedAt); err != nil {
			return nil, domainCourse.StorageErr{Op: "read_modules", Cause: err}
		}
		m.ModuleType = domainCourse.ModuleType(moduleType)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domainCourse.StorageErr{Op: "read_modules", Cause: err}
	}
	return modules, nil
}

func (s *Store) moduleOfCourse(ctx context.Context, courseID int64, moduleID int64) (*domainCourse.SectionModule, error) {
	var m domainCourse.SectionModule
	var moduleType string
	err := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.section_id, m.name, m.module_type, m.updated_at
		FROM section_module m
		JOIN course_section s ON s.id = m.section_id
		WHERE m.id = ? AND s.course_id = ?
	`, moduleID, courseID).Scan(&m.ID, &m.SectionID, &m.Name, &moduleType, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domainCourse.NotFound{Kind: "module", ID: moduleID}
	}
	if err != nil {
		return nil, domainCourse.StorageErr{Op: "read_module", Cause: err}
	}
	m.ModuleType = domainCourse.ModuleType(moduleType)
	return &m, nil
}
