package shell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ccm/internal/shell"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    shell.Shell
		wantErr bool
	}{
		{input: "bash", want: shell.Bash},
		{input: "/usr/bin/zsh", want: shell.Zsh},
		{input: "/opt/homebrew/bin/fish", want: shell.Fish},
		{input: "powershell", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := shell.Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, shell.ErrUnsupportedShell)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	got, err := shell.Detect()
	require.NoError(t, err)
	assert.Equal(t, shell.Zsh, got)

	t.Setenv("SHELL", "")
	_, err = shell.Detect()
	assert.ErrorIs(t, err, shell.ErrUnsupportedShell)
}

func TestExport(t *testing.T) {
	t.Parallel()

	vars := []shell.Var{
		{Name: "ANTHROPIC_MODEL", Value: "model-large"},
		{Name: "QUOTED", Value: `it's a \ test`},
	}

	assert.Equal(t,
		"export ANTHROPIC_MODEL='model-large'\nexport QUOTED='it'\\''s a \\ test'\n",
		shell.Bash.Export(vars))
	assert.Equal(t, shell.Bash.Export(vars), shell.Zsh.Export(vars))
	assert.Equal(t,
		"set -gx ANTHROPIC_MODEL 'model-large';\nset -gx QUOTED 'it\\'s a \\\\ test';\n",
		shell.Fish.Export(vars))
}

func TestUnset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unset A\nunset B\n", shell.Bash.Unset([]string{"A", "B"}))
	assert.Equal(t, "set -e A;\n", shell.Fish.Unset([]string{"A"}))
}
