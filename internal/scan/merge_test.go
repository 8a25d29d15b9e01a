package scan

import (
	"testing"

	"liquitrace/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestMerge_SameTokenFromAllSources_KeepsBoostedName(t *testing.T) {
	boosted := []domain.CandidatePair{pairFor("0xa", "BoostedName", 5000, 5000, 1)}
	searched := []domain.CandidatePair{pairFor("0xa", "SearchedName", 9000, 9000, 90)}
	trending := []domain.CandidatePair{pairFor("0xa", "TrendingName", 9000, 9000, 99)}

	merged := Merge(boosted, searched, trending)

	require.Len(t, merged, 1)
	require.Equal(t, "BoostedName", merged[0].BaseToken.Name)
	require.Equal(t, boosted[0], merged[0])
}

func TestMerge_SearchedBeatsTrending(t *testing.T) {
	searched := []domain.CandidatePair{pairFor("0xb", "Searched", 1, 1, 1)}
	trending := []domain.CandidatePair{pairFor("0xb", "Trending", 1, 1, 1)}

	merged := Merge(nil, searched, trending)

	require.Len(t, merged, 1)
	require.Equal(t, "Searched", merged[0].BaseToken.Name)
}

func TestMerge_FirstSeenWinsWithinSourceAndOrderIsPreserved(t *testing.T) {
	searched := []domain.CandidatePair{
		pairFor("0xc", "C1", 1, 1, 1),
		pairFor("0xd", "D", 1, 1, 1),
		pairFor("0xc", "C2", 1, 1, 1),
	}
	trending := []domain.CandidatePair{pairFor("0xe", "E", 1, 1, 1)}
	boosted := []domain.CandidatePair{pairFor("0xf", "F", 1, 1, 1)}

	merged := Merge(boosted, searched, trending)

	names := make([]string, 0, len(merged))
	for _, p := range merged {
		names = append(names, p.BaseToken.Name)
	}
	require.Equal(t, []string{"F", "C1", "D", "E"}, names)
}

func TestMerge_DropsEmptyBaseAddress(t *testing.T) {
	trending := []domain.CandidatePair{
		pairFor("", "NoAddress", 1, 1, 1),
		pairFor("0xg", "G", 1, 1, 1),
	}

	merged := Merge(nil, nil, trending)

	require.Len(t, merged, 1)
	require.Equal(t, "0xg", merged[0].BaseToken.Address)
}

func TestMerge_Empty(t *testing.T) {
	require.Empty(t, Merge(nil, nil, nil))
}

func TestMerge_AddressCaseDoesNotSplitToken(t *testing.T) {
	searched := []domain.CandidatePair{pairFor("0xAbCd", "Checksummed", 5000, 5000, 5)}
	trending := []domain.CandidatePair{pairFor("0xabcd", "Lower", 9000, 9000, 50)}

	merged := Merge(nil, searched, trending)

	require.Len(t, merged, 1)
	require.Equal(t, "Checksummed", merged[0].BaseToken.Name)
}
