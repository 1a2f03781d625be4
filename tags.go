package sectorfx

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TagList is the set of tags carried by a sector or line. A tag may resolve
// to any number of objects, including none.
type TagList []int

func (t TagList) Has(tag int) bool {
	return slices.Contains(t, tag)
}

// First returns the first tag, or 0.
func (t TagList) First() int {
	if len(t) == 0 {
		return 0
	}
	return t[0]
}

// tagIndex maps a tag to the ascending indices of the objects carrying it.
type tagIndex map[int][]int

func (ix tagIndex) add(tag, i int) {
	if tag == 0 {
		return
	}
	list := ix[tag]
	pos, found := slices.BinarySearch(list, i)
	if found {
		return
	}
	ix[tag] = slices.Insert(list, pos, i)
}

func (ix tagIndex) remove(tag, i int) {
	list := ix[tag]
	pos, found := slices.BinarySearch(list, i)
	if !found {
		return
	}
	list = slices.Delete(list, pos, pos+1)
	if len(list) == 0 {
		delete(ix, tag)
		return
	}
	ix[tag] = list
}

func (ix tagIndex) find(tag int) []int {
	return ix[tag]
}

// tags returns every tag in use, ascending.
func (ix tagIndex) tags() []int {
	keys := maps.Keys(ix)
	slices.Sort(keys)
	return keys
}

// SectorsByTag returns the sectors carrying tag, in index order.
func (l *Level) SectorsByTag(tag int) []*Sector {
	idx := l.sectorTags.find(tag)
	result := make([]*Sector, 0, len(idx))
	for _, i := range idx {
		result = append(result, &l.Sectors[i])
	}
	return result
}

// LinesByTag returns the lines carrying tag, in index order.
func (l *Level) LinesByTag(tag int) []*Line {
	idx := l.lineTags.find(tag)
	result := make([]*Line, 0, len(idx))
	for _, i := range idx {
		result = append(result, &l.Lines[i])
	}
	return result
}

// SectorTags lists every sector tag in use, ascending.
func (l *Level) SectorTags() []int {
	return l.sectorTags.tags()
}

// SetSectorTags replaces a sector's tags and keeps the index current.
func (l *Level) SetSectorTags(s *Sector, tags TagList) {
	for _, t := range s.Tags {
		l.sectorTags.remove(t, s.Index)
	}
	s.Tags = append(TagList(nil), tags...)
	for _, t := range s.Tags {
		l.sectorTags.add(t, s.Index)
	}
}

func (l *Level) buildTagIndexes() {
	l.sectorTags = tagIndex{}
	l.lineTags = tagIndex{}
	for i := range l.Sectors {
		for _, t := range l.Sectors[i].Tags {
			l.sectorTags.add(t, i)
		}
	}
	for i := range l.Lines {
		for _, t := range l.Lines[i].Tags {
			l.lineTags.add(t, i)
		}
	}
}
