package blockchain

import (
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// RollingMerkleTree computes the double SHA256 merkle root over a sequence of
// leaf hashes without materializing the full tree. Interior nodes are folded
// eagerly as leaves arrive, so at any point the tree holds at most one node
// per level, bounding the extra storage at O(log n). The same instance serves
// both transaction and referral leaves since the combining rule is identical.
type RollingMerkleTree struct {
	// nodes holds the unconsolidated subtree roots, keyed by the index the
	// node occupies at its level.
	nodes map[uint32]chainhash.Hash

	// num is the total number of leaves pushed so far.
	num uint32

	// buf is a static scratch array used to concatenate a left and right
	// node before hashing.
	buf [2 * chainhash.HashSize]byte

	// both aliases all of buf.
	both []byte

	// left aliases the first half of buf.
	left []byte

	// right aliases the second half of buf.
	right []byte
}

// MakeRollingMerkleTree returns a RollingMerkleTree sized for the given number
// of leaves. Pushing more than size leaves still works, it just may grow the
// internal map.
func MakeRollingMerkleTree(size int) RollingMerkleTree {
	// One pending subtree root can exist per level, so log2(size) entries
	// cover the expected peak.
	logn := int(math.Log2(float64(size)) + 1)

	t := RollingMerkleTree{
		nodes: make(map[uint32]chainhash.Hash, logn),
	}

	// Slice buf once up front so the hot path never reslices.
	t.both = t.buf[:]
	t.left = t.buf[:chainhash.HashSize]
	t.right = t.buf[chainhash.HashSize:]

	return t
}

// NewRollingMerkleTree returns a heap-allocated RollingMerkleTree sized for
// the given number of leaves.
func NewRollingMerkleTree(size int) *RollingMerkleTree {
	merkle := MakeRollingMerkleTree(size)
	return &merkle
}

// Push appends the next leaf to the tree. A left leaf is stored at its index
// until its sibling shows up. A right leaf is never stored, it is combined
// with the stored left sibling immediately, and the resulting interior node
// cascades upward as long as it too has a completed sibling. After any Push at
// most one pending node remains per level.
func (t *RollingMerkleTree) Push(hash *chainhash.Hash) {
	// Count the leaf before consolidating. Both prune and Root rely on num
	// reflecting every leaf pushed so far.
	t.num++

	// Leaf positions are zero indexed, so even indexes are left children
	// and odd indexes are right children.
	idx := t.num - 1
	if idx%2 == 0 {
		// A left leaf cannot be consolidated yet, so store it under its
		// base index.
		t.nodes[idx] = *hash
	} else {
		// A right leaf always completes at least one subtree. The hash
		// is threaded into prune directly rather than stored, since it
		// is consumed as soon as the interior node is computed.
		t.prune(hash)
	}
}

// Root consolidates any remaining partial subtrees and returns the merkle root
// of all pushed leaves. An empty tree yields the zero hash.
func (t *RollingMerkleTree) Root() chainhash.Hash {
	switch len(t.nodes) {

	case 0:
		return chainhash.Hash{}

	// A single pending node is already the root.
	case 1:
		return t.nodes[0]

	// Otherwise run a final pruning pass where lone left children are
	// hashed with themselves, which collapses everything to index 0.
	default:
		t.prune(nil)
		return t.nodes[0]
	}

}

// prune folds completed subtrees into their parents. With a non-nil leaf, the
// leaf is the right child at the highest base index and at least one fold is
// possible. With a nil leaf no further leaves are coming and the pass must
// produce the final root, so lone left children are hashed with themselves per
// the duplicate-last rule inherited from bitcoin's merkle construction.
func (t *RollingMerkleTree) prune(leaf *chainhash.Hash) {
	final := leaf == nil

	// Walk from the newest position up toward the root, halving the index
	// at each level.
	for i := t.num - 1; i > 0; i /= 2 {
		if i%2 == 0 {
			// A left node at this level. Outside of final mode there
			// is nothing to combine it with until its right subtree
			// completes.
			if !final {
				return
			}

			// In final mode a stored left node has no sibling and is
			// hashed with itself. A missing entry means this subtree
			// was already folded to a lower index, so keep climbing.
			if left, ok := t.nodes[i]; ok {
				delete(t.nodes, i)
				t.nodes[i/2] = t.hashMerkleBranches(&left, &left)
			}
			continue
		}

		// A right node at this level, so find its left sibling. In
		// final mode a missing sibling just means the pair lives at a
		// lower index, otherwise the fold has to wait for more leaves.
		left, ok := t.nodes[i-1]
		if !ok && final {
			continue
		} else if !ok && !final {
			return
		}

		// The sibling is consumed by the fold.
		delete(t.nodes, i-1)

		// The right node is either the threaded leaf on the first
		// iteration or the interior node produced by the previous
		// iteration, which always exists.
		var right chainhash.Hash
		if !final && i == t.num-1 {
			right = *leaf
		} else {
			right = t.nodes[i]
			delete(t.nodes, i)
		}

		// Store the parent one level up.
		t.nodes[i/2] = t.hashMerkleBranches(&left, &right)
	}
}

// hashMerkleBranches concatenates left||right in the scratch buffer and
// returns the double SHA256 of the result.
func (t *RollingMerkleTree) hashMerkleBranches(
	left, right *chainhash.Hash) chainhash.Hash {

	copy(t.left, left[:])
	copy(t.right, right[:])

	return chainhash.DoubleHashH(t.both)
}
