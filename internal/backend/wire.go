package backend

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/dshills/kibitz/internal/candidate"
)

// wireRequest is the on-wire request envelope.
type wireRequest struct {
	ID   int64 `msgpack:"id"`
	Line int   `msgpack:"l"`
	Col  int   `msgpack:"c"`
}

// wireResponse is the on-wire response envelope. Rows stay raw so a
// malformed row can be skipped without losing its siblings.
type wireResponse struct {
	ID   int64                `msgpack:"id"`
	Rows []msgpack.RawMessage `msgpack:"r"`
}

// decodeResponse reads one response envelope from dec. Malformed rows
// are dropped; skipped reports how many. An envelope-level error is
// fatal to the stream.
func decodeResponse(dec *msgpack.Decoder) (resp Response, skipped int, err error) {
	var env wireResponse
	if err := dec.Decode(&env); err != nil {
		return Response{}, 0, err
	}

	resp.Token = env.ID
	if len(env.Rows) > 0 {
		resp.Candidates = make([]candidate.Candidate, 0, len(env.Rows))
	}
	for _, raw := range env.Rows {
		c, err := decodeCandidate(msgpack.NewDecoder(bytes.NewReader(raw)))
		if err != nil {
			skipped++
			continue
		}
		resp.Candidates = append(resp.Candidates, c)
	}
	return resp, skipped, nil
}

// encodeResponse writes a full response envelope. Tests and in-process
// fixtures use it to play the backend side of the wire.
func encodeResponse(enc *msgpack.Encoder, resp Response) error {
	if err := enc.EncodeMapLen(2); err != nil {
		return err
	}
	if err := enc.EncodeString("id"); err != nil {
		return err
	}
	if err := enc.EncodeInt(resp.Token); err != nil {
		return err
	}
	if err := enc.EncodeString("r"); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(resp.Candidates)); err != nil {
		return err
	}
	for _, c := range resp.Candidates {
		if err := encodeCandidate(enc, c); err != nil {
			return err
		}
	}
	return nil
}

// encodeCandidate writes one candidate as the fixed 7-field tuple with
// the post-completion payload nested as (text, s1, e1, s2, e2, ...).
func encodeCandidate(enc *msgpack.Encoder, c candidate.Candidate) error {
	if err := enc.EncodeArrayLen(7); err != nil {
		return err
	}
	if err := enc.EncodeString(c.TypedText); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(c.Priority)); err != nil {
		return err
	}
	if err := enc.EncodeString(c.ResultType); err != nil {
		return err
	}
	if err := enc.EncodeString(c.Brief); err != nil {
		return err
	}
	if err := enc.EncodeString(c.Signature); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(c.AnnotationStart)); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(1 + 2*len(c.Post.Placeholders)); err != nil {
		return err
	}
	if err := enc.EncodeString(c.Post.Text); err != nil {
		return err
	}
	for _, s := range c.Post.Placeholders {
		if err := enc.EncodeInt(int64(s.Start)); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(s.End)); err != nil {
			return err
		}
	}
	return nil
}

// decodeCandidate reads one positional tuple. Rows with missing fields,
// undecodable values, or unusable placeholder spans fail individually
// so the caller can skip them.
func decodeCandidate(dec *msgpack.Decoder) (candidate.Candidate, error) {
	var c candidate.Candidate

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return c, fmt.Errorf("candidate row: %w", err)
	}
	if n < 7 {
		return c, fmt.Errorf("%w: %d of 7 fields", ErrTruncatedTuple, n)
	}

	if c.TypedText, err = dec.DecodeString(); err != nil {
		return c, fmt.Errorf("typed text: %w", err)
	}
	pr, err := dec.DecodeInt64()
	if err != nil {
		return c, fmt.Errorf("priority: %w", err)
	}
	c.Priority = int(pr)
	if c.ResultType, err = decodeOptString(dec); err != nil {
		return c, fmt.Errorf("result type: %w", err)
	}
	if c.Brief, err = decodeOptString(dec); err != nil {
		return c, fmt.Errorf("brief: %w", err)
	}
	if c.Signature, err = dec.DecodeString(); err != nil {
		return c, fmt.Errorf("signature: %w", err)
	}
	as, err := dec.DecodeInt64()
	if err != nil {
		return c, fmt.Errorf("annotation start: %w", err)
	}
	c.AnnotationStart = int(as)

	pn, err := dec.DecodeArrayLen()
	if err != nil {
		return c, fmt.Errorf("post tuple: %w", err)
	}
	if pn < 1 || (pn-1)%2 != 0 {
		return c, fmt.Errorf("%w: post tuple has %d fields", ErrTruncatedTuple, pn)
	}
	if c.Post.Text, err = dec.DecodeString(); err != nil {
		return c, fmt.Errorf("post text: %w", err)
	}
	for i := 0; i < (pn-1)/2; i++ {
		start, err := dec.DecodeInt64()
		if err != nil {
			return c, fmt.Errorf("placeholder %d start: %w", i, err)
		}
		end, err := dec.DecodeInt64()
		if err != nil {
			return c, fmt.Errorf("placeholder %d end: %w", i, err)
		}
		c.Post.Placeholders = append(c.Post.Placeholders, candidate.Span{
			Start: int(start),
			End:   int(end),
		})
	}

	// Tolerate fields appended by newer backends.
	for i := 7; i < n; i++ {
		if err := dec.Skip(); err != nil {
			return c, fmt.Errorf("extra field %d: %w", i, err)
		}
	}

	if err := c.Post.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// decodeOptString reads a string field that backends may send as nil.
func decodeOptString(dec *msgpack.Decoder) (string, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return "", err
	}
	if code == msgpcode.Nil {
		return "", dec.DecodeNil()
	}
	return dec.DecodeString()
}
