package csvload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

func TestRead(t *testing.T) {
	t.Parallel()

	const data = "\ufeffjuz,id,surah,surah_name,ayah,text,extra\n" +
		"1,1,1, الفاتحة ,1,  بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ  ,x\n" +
		",2,1,الفاتحة,2,ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَٰلَمِينَ,x\n" +
		"30.0,6236,114,الناس,6,مِنَ ٱلْجِنَّةِ وَٱلنَّاسِ,x\n"

	res, err := Read(strings.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, []entities.Verse{
		{ID: 1, Surah: 1, SurahName: "الفاتحة", Ayah: 1, Text: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Juz: 1},
		{ID: 6236, Surah: 114, SurahName: "الناس", Ayah: 6, Text: "مِنَ ٱلْجِنَّةِ وَٱلنَّاسِ", Juz: 30},
	}, res.Verses)
	assert.Equal(t, []int{3}, res.Skipped)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	const header = "id,surah,surah_name,ayah,text,juz\n"

	tests := []struct {
		name string
		data string
		err  error
	}{
		{"missing column", "id,surah,ayah,text,juz\n1,1,1,x,1\n", ErrMissingColumn},
		{"juz out of range", header + "1,1,الفاتحة,1,نص,31\n", ErrInvalidRow},
		{"juz zero", header + "1,1,الفاتحة,1,نص,0\n", ErrInvalidRow},
		{"surah out of range", header + "1,115,x,1,نص,1\n", ErrInvalidRow},
		{"fractional ayah", header + "1,1,x,1.5,نص,1\n", ErrInvalidRow},
		{"empty text", header + "1,1,x,1, ,1\n", ErrInvalidRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(strings.NewReader(tt.data))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestReadEmpty(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "quran.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,surah,surah_name,ayah,text,juz\n1,1,الفاتحة,1,نص,1\n"), 0o600))

	res, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, res.Verses, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
