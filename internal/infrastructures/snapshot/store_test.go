package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteJSON_KeepsNonASCIIAndIndents(t *testing.T) {
	store := NewStore(t.TempDir())

	clubs := []models.ClubAlias{{AliasID: "a1", Club: "Associação Académica & Co"}}
	require.NoError(t, store.WriteJSON("clubs_alias_db.json", clubs))

	data, err := os.ReadFile(store.Path("clubs_alias_db.json"))
	require.NoError(t, err)

	want := "[\n    {\n        \"alias_id\": \"a1\",\n        \"club\": \"Associação Académica & Co\"\n    }\n]"
	require.Equal(t, want, string(data))
}

func TestStore_JSONRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	in := []models.Sanction{{PageID: "p1", ClubGroup: "FC Example", Quantity: 3, SuspensionDays: 10, Formation: "Seniors", Fines: 150, Date: "2024-01-15"}}
	require.NoError(t, store.WriteJSON("nested/sanctions.json", in))

	var out []models.Sanction
	require.NoError(t, store.ReadJSON("nested/sanctions.json", &out))
	require.Equal(t, in, out)
}

func TestStore_Lines(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.WriteLines("clubs_alias_db.txt", []string{"FC Example", "Leixões SC"}))

	data, err := os.ReadFile(filepath.Join(dir, "clubs_alias_db.txt"))
	require.NoError(t, err)
	require.Equal(t, "FC Example\nLeixões SC\n", string(data))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.txt"), []byte("  FC Example \n\n\tBoavista FC\n"), 0o644))
	lines, err := store.ReadLines("manual.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"FC Example", "Boavista FC"}, lines)
}

func TestStore_ReadJSON_MissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	var out []models.Club
	err := store.ReadJSON("missing.json", &out)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "missing.json"))
}

func TestStore_AbsolutePathIsKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.json")
	require.Equal(t, abs, NewStore("ignored").Path(abs))
}
