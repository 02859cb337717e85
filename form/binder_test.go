package form_test

import (
	"testing"

	"github.com/declarui/declarui/form"
	"github.com/stretchr/testify/require"
)

type fakeEvent struct {
	str      string
	boolean  bool
	selected []string
	files    any
}

func (f fakeEvent) StringValue() string      { return f.str }
func (f fakeEvent) BoolValue() bool          { return f.boolean }
func (f fakeEvent) SelectedValues() []string { return f.selected }
func (f fakeEvent) Files() any               { return f.files }

func TestClassifyFieldByTagAndType(t *testing.T) {
	role, ok := form.ClassifyField("input", "checkbox", false, true)
	require.True(t, ok)
	require.Equal(t, form.RoleCheckbox, role)

	role, ok = form.ClassifyField("input", "radio", false, true)
	require.True(t, ok)
	require.Equal(t, form.RoleRadio, role)

	role, ok = form.ClassifyField("input", "", false, true)
	require.True(t, ok)
	require.Equal(t, form.RoleText, role)

	role, ok = form.ClassifyField("select", "", true, true)
	require.True(t, ok)
	require.Equal(t, form.RoleSelectMultiple, role)

	role, ok = form.ClassifyField("select", "", false, true)
	require.True(t, ok)
	require.Equal(t, form.RoleText, role)

	role, ok = form.ClassifyField("my-datepicker", "", false, true)
	require.True(t, ok)
	require.Equal(t, form.RoleCustom, role)

	_, ok = form.ClassifyField("input", "text", false, false)
	require.False(t, ok, "a field with no name is never eligible")

	_, ok = form.ClassifyField("span", "", false, true)
	require.False(t, ok, "a plain non-form, non-hyphenated tag is never eligible")
}

func TestReadPropsPerRole(t *testing.T) {
	require.Equal(t, map[string]any{"value": "hi"}, form.ReadProps(form.RoleText, "hi", ""))
	require.Nil(t, form.ReadProps(form.RoleText, nil, ""))
	require.Equal(t, map[string]any{"checked": true}, form.ReadProps(form.RoleCheckbox, true, ""))
	require.Equal(t, map[string]any{"checked": false}, form.ReadProps(form.RoleCheckbox, nil, ""))
	require.Equal(t, map[string]any{"checked": true}, form.ReadProps(form.RoleRadio, "blue", "blue"))
	require.Equal(t, map[string]any{"checked": false}, form.ReadProps(form.RoleRadio, "red", "blue"))
	require.Nil(t, form.ReadProps(form.RoleFile, "anything", ""))
	require.Nil(t, form.ReadProps(form.RoleSelectMultiple, []any{"a"}, ""))
}

func TestExtractWritePerRole(t *testing.T) {
	v, ok := form.ExtractWrite(form.RoleText, fakeEvent{str: "typed"}, "")
	require.True(t, ok)
	require.Equal(t, "typed", v)

	v, ok = form.ExtractWrite(form.RoleCheckbox, fakeEvent{boolean: true}, "")
	require.True(t, ok)
	require.Equal(t, true, v)

	_, ok = form.ExtractWrite(form.RoleRadio, fakeEvent{boolean: false}, "blue")
	require.False(t, ok, "an unchecked radio's change event never writes")

	v, ok = form.ExtractWrite(form.RoleRadio, fakeEvent{boolean: true}, "blue")
	require.True(t, ok)
	require.Equal(t, "blue", v)

	v, ok = form.ExtractWrite(form.RoleSelectMultiple, fakeEvent{selected: []string{"a", "b"}}, "")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, v)

	v, ok = form.ExtractWrite(form.RoleFile, fakeEvent{files: []any{"f1"}}, "")
	require.True(t, ok)
	require.Equal(t, []any{"f1"}, v)
}

func TestEventNamesPerRole(t *testing.T) {
	require.Equal(t, []string{"oninput", "onchange"}, form.EventNames(form.RoleText))
	require.Equal(t, []string{"onchange"}, form.EventNames(form.RoleCheckbox))
	require.Nil(t, form.EventNames(form.RoleCustom))
	require.Nil(t, form.EventNames(form.RoleNone))
}
