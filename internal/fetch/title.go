package fetch

// KnownURL 是唯一被识别的 url，其余均视为未知站点。
const KnownURL = "known"

const (
	TitleKnown   = "Known website"
	TitleUnknown = "Unknown website"
)

// TitleFor 是模拟抓取的确定性结果。
func TitleFor(url string) string {
	if url == KnownURL {
		return TitleKnown
	}
	return TitleUnknown
}
