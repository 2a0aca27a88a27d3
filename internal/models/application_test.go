package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_UniqueColumnsAndKeys(t *testing.T) {
	columns := map[string]bool{}
	keys := map[string]bool{}
	for _, f := range Fields {
		assert.False(t, columns[f.Column], "duplicate column %s", f.Column)
		columns[f.Column] = true
		assert.NotEmpty(t, f.Header)
		assert.Greater(t, f.Width, 0.0)
		if f.Key != "" {
			assert.False(t, keys[f.Key], "duplicate key %s", f.Key)
			keys[f.Key] = true
		}
	}
	assert.Equal(t, ColumnID, Fields[0].Column)
	assert.Equal(t, ColumnSubmissionTimestamp, Fields[len(Fields)-1].Column)
}

func TestListingColumns_AreKnown(t *testing.T) {
	for _, c := range ListingColumns {
		_, ok := FieldByColumn(c)
		assert.True(t, ok, c)
	}
	assert.Equal(t, ListingColumns, QueryTypeListing.Columns())
	assert.Len(t, QueryTypeAll.Columns(), len(Fields))
}

func TestInsertColumns_ExcludeServerAssigned(t *testing.T) {
	cols := InsertColumns()
	assert.NotContains(t, cols, ColumnID)
	assert.NotContains(t, cols, ColumnSubmissionTimestamp)
	assert.Contains(t, cols, ColumnProfilePictureURL)
	assert.Len(t, cols, len(FormFields())+1)
}

func TestApplication_LegacyProfilePicture(t *testing.T) {
	legacy := "jane.png"
	app := NewApplication()
	app.ProfilePictureName = &legacy

	require.NotNil(t, app.ProfilePictureURL())
	assert.Equal(t, "jane.png", *app.ProfilePictureURL())

	app.Set(ColumnProfilePictureURL, "https://res.cloudinary.com/demo/image/upload/p.jpg")
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/p.jpg", *app.ProfilePictureURL())
}

func TestApplication_Summary(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	app := NewApplication()
	app.ID = 42
	app.SubmissionTimestamp = ts
	app.Set("full_name", "Jane Doe")
	app.Set("email_add", "jane@x.com")
	app.Set("birth_date", nil)

	s := app.Summary()
	assert.Equal(t, int64(42), s.ID)
	require.NotNil(t, s.FullName)
	assert.Equal(t, "Jane Doe", *s.FullName)
	assert.Nil(t, s.BirthDate)
	assert.Nil(t, s.ProfilePictureURL)
	assert.Equal(t, ts, s.SubmissionTimestamp)

	assert.Equal(t, int64(42), app.Value(ColumnID))
	assert.Equal(t, "jane@x.com", app.String("email_add"))
	assert.Equal(t, "", app.String("nick_name"))
}
