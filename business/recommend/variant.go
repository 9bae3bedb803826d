package recommend

import "strconv"

const (
	AlgorithmCollaborative = "collaborative"
	AlgorithmFactor        = "nmf"
	AlgorithmContent       = "content_based"
	AlgorithmHybrid        = "hybrid"

	// AlgorithmPopularity tags cold-start results only; it cannot be
	// requested directly.
	AlgorithmPopularity = "popularity_based"
)

// VariantTags is the ordered experiment bucket list. Order matters: the
// assignment below indexes into it.
var VariantTags = []string{
	AlgorithmCollaborative,
	AlgorithmFactor,
	AlgorithmContent,
	AlgorithmHybrid,
}

// AssignVariant buckets a user deterministically: sum of the character codes
// of the decimal user id, modulo the variant count. Pure function, so the
// same user always lands in the same bucket without a stored assignment.
func AssignVariant(userID uint) string {
	id := strconv.FormatUint(uint64(userID), 10)

	sum := 0
	for i := 0; i < len(id); i++ {
		sum += int(id[i])
	}

	return VariantTags[sum%len(VariantTags)]
}

func validAlgorithm(tag string) bool {
	switch tag {
	case AlgorithmCollaborative, AlgorithmFactor, AlgorithmContent, AlgorithmHybrid:
		return true
	}
	return false
}
