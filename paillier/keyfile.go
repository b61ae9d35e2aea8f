package paillier

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/citp/ThresholdECDSA/therrors"
)

// WriteThresholdKeyFile writes shares (all shares of one threshold key, in
// id order 1..l) to w in the plain-text line-oriented format of spec.md §6:
// one "name:value" line per scalar field, followed by one "si:<..>\tvi:<..>"
// line per share.
func WriteThresholdKeyFile(w io.Writer, shares []*ThresholdPrivateShare) error {
	if len(shares) == 0 {
		return fmt.Errorf("paillier: no shares to write: %w", therrors.ErrDomainViolation)
	}
	tpk := shares[0].ThresholdPublicKey
	byID := make(map[uint8]*ThresholdPrivateShare, len(shares))
	for _, s := range shares {
		if s.ThresholdPublicKey != tpk {
			return fmt.Errorf("paillier: shares reference different threshold keys: %w", therrors.ErrKeyMismatch)
		}
		byID[s.ID] = s
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "l:%d\n", tpk.L)
	fmt.Fprintf(bw, "w:%d\n", tpk.W)
	fmt.Fprintf(bw, "v:%s\n", tpk.V.String())
	fmt.Fprintf(bw, "n:%s\n", tpk.N.String())
	fmt.Fprintf(bw, "combineSharesConstant:%s\n", tpk.CombineConstant.String())
	for i := uint8(0); i < tpk.L; i++ {
		id := i + 1
		share, ok := byID[id]
		if !ok {
			return fmt.Errorf("paillier: missing share for id %d: %w", id, therrors.ErrInsufficientShares)
		}
		fmt.Fprintf(bw, "s%d:%s\tv%d:%s\n", i, share.Si.String(), i, tpk.Vi[i].String())
	}
	return bw.Flush()
}

// ReadThresholdKeyFile parses the format written by WriteThresholdKeyFile and
// returns every share it describes.
func ReadThresholdKeyFile(r io.Reader) ([]*ThresholdPrivateShare, error) {
	scanner := bufio.NewScanner(r)
	fields := map[string]string{}
	si := map[int]*big.Int{}
	vi := map[int]*big.Int{}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		for _, part := range strings.Split(line, "\t") {
			kv := strings.SplitN(part, ":", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("paillier: malformed key file line %q: %w", part, therrors.ErrCorruptEncoding)
			}
			name, value := kv[0], kv[1]
			switch {
			case strings.HasPrefix(name, "s") && name != "" && name[0] == 's' && len(name) > 1 && isDigits(name[1:]):
				idx, _ := strconv.Atoi(name[1:])
				n, ok := new(big.Int).SetString(value, 10)
				if !ok {
					return nil, fmt.Errorf("paillier: bad integer for %s: %w", name, therrors.ErrCorruptEncoding)
				}
				si[idx] = n
			case strings.HasPrefix(name, "v") && len(name) > 1 && isDigits(name[1:]):
				idx, _ := strconv.Atoi(name[1:])
				n, ok := new(big.Int).SetString(value, 10)
				if !ok {
					return nil, fmt.Errorf("paillier: bad integer for %s: %w", name, therrors.ErrCorruptEncoding)
				}
				vi[idx] = n
			default:
				fields[name] = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	l, err := strconv.ParseUint(fields["l"], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("paillier: bad l field: %w", therrors.ErrCorruptEncoding)
	}
	w, err := strconv.ParseUint(fields["w"], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("paillier: bad w field: %w", therrors.ErrCorruptEncoding)
	}
	v, ok := new(big.Int).SetString(fields["v"], 10)
	if !ok {
		return nil, fmt.Errorf("paillier: bad v field: %w", therrors.ErrCorruptEncoding)
	}
	n, ok := new(big.Int).SetString(fields["n"], 10)
	if !ok {
		return nil, fmt.Errorf("paillier: bad n field: %w", therrors.ErrCorruptEncoding)
	}
	combineConstant, ok := new(big.Int).SetString(fields["combineSharesConstant"], 10)
	if !ok {
		return nil, fmt.Errorf("paillier: bad combineSharesConstant field: %w", therrors.ErrCorruptEncoding)
	}

	delta := new(big.Int).MulRange(1, int64(l))
	tpk := &ThresholdPublicKey{
		PublicKey:       newPublicKey(n, nil),
		L:               uint8(l),
		W:               uint8(w),
		Delta:           delta,
		V:               v,
		Vi:              make([]*big.Int, l),
		CombineConstant: combineConstant,
	}

	shares := make([]*ThresholdPrivateShare, l)
	for i := 0; i < int(l); i++ {
		s, ok := si[i]
		if !ok {
			return nil, fmt.Errorf("paillier: missing s%d: %w", i, therrors.ErrCorruptEncoding)
		}
		vv, ok := vi[i]
		if !ok {
			return nil, fmt.Errorf("paillier: missing v%d: %w", i, therrors.ErrCorruptEncoding)
		}
		tpk.Vi[i] = vv
		shares[i] = &ThresholdPrivateShare{
			ThresholdPublicKey: tpk,
			ID:                 uint8(i + 1),
			Si:                 s,
		}
	}
	return shares, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
