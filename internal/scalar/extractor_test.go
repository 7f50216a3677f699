package scalar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

func TestExtractMandatoryMissing(t *testing.T) {
	block := syntaxtree.NewBlock("log", 1)
	_, err := Extract(block, "log", Descriptor{
		Name: "file", Kind: KindString, Flags: FlagMandatory | FlagAbsolutePath,
	}, nil)
	require.Error(t, err)
	var ce *policyerrors.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, policyerrors.KindMissingMandatory, ce.Kind)
	assert.Contains(t, err.Error(), "mandatory parameter is missing")
}

func TestExtractSizeWithSuffix(t *testing.T) {
	block := syntaxtree.NewBlock("general", 1)
	block.AddItem(syntaxtree.NewItem("max_size", "2M", 2))

	res, err := Extract(block, "general", Descriptor{
		Name: "max_size", Kind: KindSize, Flags: FlagNotNull,
	}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2*1024*1024, res.Size)
}

func TestExtractAbsolutePathRejectsRelative(t *testing.T) {
	block := syntaxtree.NewBlock("general", 1)
	block.AddItem(syntaxtree.NewItem("root", "relative/path", 2))

	_, err := Extract(block, "general", Descriptor{
		Name: "root", Kind: KindString, Flags: FlagAbsolutePath,
	}, nil)
	require.Error(t, err)
}

func TestExtractStdioAllowedBypassesPathCheck(t *testing.T) {
	block := syntaxtree.NewBlock("general", 1)
	block.AddItem(syntaxtree.NewItem("log_file", "stderr", 2))

	res, err := Extract(block, "general", Descriptor{
		Name: "log_file", Kind: KindString, Flags: FlagAbsolutePath | FlagStdioAllowed,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stderr", res.Str)
}

func TestExtractExtraArgsWithoutSinkIsError(t *testing.T) {
	block := syntaxtree.NewBlock("general", 1)
	item := syntaxtree.NewItem("cmd", "run", 2)
	item.ExtraArgs = []string{"--flag"}
	block.AddItem(item)

	_, err := Extract(block, "general", Descriptor{Name: "cmd", Kind: KindString}, nil)
	require.Error(t, err)
}

func TestExtractExtraArgsWithSink(t *testing.T) {
	block := syntaxtree.NewBlock("general", 1)
	item := syntaxtree.NewItem("cmd", "run", 2)
	item.ExtraArgs = []string{"--flag"}
	block.AddItem(item)

	var extras []string
	res, err := Extract(block, "general", Descriptor{Name: "cmd", Kind: KindString}, &extras)
	require.NoError(t, err)
	assert.Equal(t, []string{"--flag"}, extras)
	assert.Equal(t, []string{"--flag"}, res.ExtraArgs)
}

func TestExtractMailFlag(t *testing.T) {
	block := syntaxtree.NewBlock("general", 1)
	block.AddItem(syntaxtree.NewItem("admin_mail", "not-an-email", 2))

	_, err := Extract(block, "general", Descriptor{Name: "admin_mail", Kind: KindString, Flags: FlagMail}, nil)
	assert.Error(t, err)

	block2 := syntaxtree.NewBlock("general", 1)
	block2.AddItem(syntaxtree.NewItem("admin_mail", "ops@example.com", 2))
	res, err := Extract(block2, "general", Descriptor{Name: "admin_mail", Kind: KindString, Flags: FlagMail}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", res.Str)
}

func TestExtractTypeToken(t *testing.T) {
	block := syntaxtree.NewBlock("rule", 1)
	block.AddItem(syntaxtree.NewItem("kind", "directory", 2))

	res, err := Extract(block, "rule", Descriptor{Name: "kind", Kind: KindType}, nil)
	require.NoError(t, err)
	assert.Equal(t, "directory", string(res.FileType))

	block.Items[0].Value = "bogus"
	_, err = Extract(block, "rule", Descriptor{Name: "kind", Kind: KindType}, nil)
	assert.Error(t, err)
}

func TestRemoveFinalSlashKeepsRoot(t *testing.T) {
	assert.Equal(t, "/", RemoveFinalSlash("/"))
	assert.Equal(t, "/data", RemoveFinalSlash("/data/"))
}
