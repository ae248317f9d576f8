package split

import (
	"strconv"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// FixedEventCount accumulates Count entries per partition, crossing
// file boundaries and using Skip to mark the offset into the first
// file of a partition that continues where the previous one left off
// (spec: "FixedEventCount(k) (crosses file boundaries, using skip to
// mark the offset into the first file)"). A file with an unknown entry
// count (-1) cannot be split mid-file, so it is emitted whole as its
// own partition before the event-count walk resumes.
type FixedEventCount struct {
	Count int64
}

func (FixedEventCount) ClassName() string { return "FixedEventCount" }

func (s FixedEventCount) Parameters() map[string]string {
	return map[string]string{"EventsPerJob": strconv.FormatInt(s.Count, 10)}
}

func (s FixedEventCount) Split(block model.Block) ([]model.Partition, error) {
	if s.Count <= 0 {
		s.Count = 1
	}
	files := block.Files
	var out []model.Partition
	fi := 0
	var offset int64 // entries already consumed from files[fi] by a prior partition

	for fi < len(files) {
		if files[fi].Entries < 0 {
			p := partitionBase(block)
			p.URLs = []string{files[fi].URL}
			p.Entries = -1
			p.Skip = offset
			out = append(out, p)
			fi++
			offset = 0
			continue
		}

		p := partitionBase(block)
		p.Skip = offset
		remaining := s.Count
		var urls []string
		for fi < len(files) && remaining > 0 {
			if files[fi].Entries < 0 {
				break
			}
			available := files[fi].Entries - offset
			if available <= 0 {
				fi++
				offset = 0
				continue
			}
			urls = append(urls, files[fi].URL)
			if available <= remaining {
				remaining -= available
				fi++
				offset = 0
			} else {
				offset += remaining
				remaining = 0
			}
		}
		if len(urls) == 0 {
			break
		}
		p.URLs = urls
		p.Entries = s.Count - remaining
		out = append(out, p)
	}
	return out, nil
}
