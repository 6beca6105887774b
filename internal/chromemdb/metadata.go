package chromemdb

import (
	"strconv"
	"strings"

	"document-tutor/internal/models"
)

// EncodeMetadata flattens a chunk's provenance into chromem metadata.
func EncodeMetadata(chunk models.Chunk) map[string]string {
	meta := map[string]string{
		models.MetaSourceName: chunk.Provenance.SourceName,
		models.MetaChunkID:    strconv.Itoa(chunk.ChunkID),
	}
	if chunk.Provenance.PageIndex0 != nil {
		meta[models.MetaPageIndex0] = strconv.Itoa(*chunk.Provenance.PageIndex0)
	}
	if chunk.Provenance.Page != nil {
		meta[models.MetaPage] = strconv.Itoa(*chunk.Provenance.Page)
	}
	if chunk.Provenance.PageLabel != "" {
		meta[models.MetaPageLabel] = chunk.Provenance.PageLabel
	}
	return meta
}

// DecodeProvenance reads provenance back from stored metadata. Values that
// do not parse as integers are left unset.
func DecodeProvenance(meta map[string]string) models.Provenance {
	prov := models.Provenance{
		SourceName: meta[models.MetaSourceName],
		PageLabel:  meta[models.MetaPageLabel],
	}
	if v, ok := parseInt(meta[models.MetaPageIndex0]); ok {
		prov.PageIndex0 = &v
	}
	if v, ok := parseInt(meta[models.MetaPage]); ok {
		prov.Page = &v
	}
	return prov
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}
