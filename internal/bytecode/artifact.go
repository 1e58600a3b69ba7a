package bytecode

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/sharpts/sharpts/internal/errorsx"
)

// Artifact field numbers for the top-level envelope and for Chunk/Value
// sub-messages. The format is a hand-rolled protowire encoding rather than
// a generated .proto message: spec.md §6's `emit` operation only promises
// an opaque artifact_bytes blob this package itself reads back, so there
// is no cross-language wire contract to generate a schema for — protowire
// is used for its varint/length-prefix primitives, matching the DOMAIN
// STACK's choice of google.golang.org/protobuf/encoding/protowire for a
// compact, versioned binary container.
const (
	artifactMagic   = "SHTS"
	artifactVersion = 1
)

const (
	fieldChunkName       = 1
	fieldChunkLocalCount = 2
	fieldChunkConstant   = 3
	fieldChunkCode       = 4
	fieldChunkLine       = 5
	fieldChunkTryInfo    = 6

	fieldProtoName       = 1
	fieldProtoArity      = 2
	fieldProtoLocalCount = 3
	fieldProtoUpvalue    = 4
	fieldProtoChunk      = 5
)

// EncodeArtifact serializes chunk into the on-disk format `emit` returns:
// a 4-byte magic, a varint format version, then the encoded Chunk.
func EncodeArtifact(chunk *Chunk) ([]byte, error) {
	out := append([]byte(nil), artifactMagic...)
	out = protowire.AppendVarint(out, artifactVersion)
	body, err := encodeChunk(chunk)
	if err != nil {
		return nil, err
	}
	out = append(out, body...)
	return out, nil
}

// DecodeArtifact reverses EncodeArtifact, rejecting a blob whose magic or
// version does not match this build.
func DecodeArtifact(data []byte) (*Chunk, error) {
	if len(data) < len(artifactMagic) || string(data[:len(artifactMagic)]) != artifactMagic {
		return nil, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "not a sharpts bytecode artifact")
	}
	data = data[len(artifactMagic):]
	version, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return nil, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "truncated artifact header")
	}
	if version != artifactVersion {
		return nil, errorsx.NewEmitError(errorsx.ErrArtifactVersion, "unsupported artifact version %d", version)
	}
	data = data[n:]
	chunk, _, err := decodeChunk(data)
	return chunk, err
}

func encodeChunk(c *Chunk) ([]byte, error) {
	var out []byte
	out = protowire.AppendTag(out, fieldChunkName, protowire.BytesType)
	out = protowire.AppendString(out, c.Name)

	out = protowire.AppendTag(out, fieldChunkLocalCount, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(c.LocalCount))

	for _, v := range c.Constants {
		cb, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		out = protowire.AppendTag(out, fieldChunkConstant, protowire.BytesType)
		out = protowire.AppendBytes(out, cb)
	}
	for _, inst := range c.Code {
		out = protowire.AppendTag(out, fieldChunkCode, protowire.Fixed32Type)
		out = protowire.AppendFixed32(out, uint32(inst))
	}
	for _, line := range c.Lines {
		out = protowire.AppendTag(out, fieldChunkLine, protowire.VarintType)
		out = protowire.AppendVarint(out, uint64(line))
	}
	for key, info := range c.tryInfos {
		var tb []byte
		tb = protowire.AppendVarint(tb, uint64(key))
		tb = protowire.AppendVarint(tb, uint64(info.CatchTarget))
		tb = protowire.AppendVarint(tb, uint64(info.FinallyTarget))
		tb = protowire.AppendVarint(tb, boolFlags(info.HasCatch, info.HasFinally))
		out = protowire.AppendTag(out, fieldChunkTryInfo, protowire.BytesType)
		out = protowire.AppendBytes(out, tb)
	}
	return out, nil
}

func boolFlags(a, b bool) uint64 {
	var f uint64
	if a {
		f |= 1
	}
	if b {
		f |= 2
	}
	return f
}

func decodeChunk(data []byte) (*Chunk, int, error) {
	c := NewChunk("")
	total := 0
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt chunk tag")
		}
		data, total = data[n:], total+n

		switch num {
		case fieldChunkName:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt chunk name")
			}
			c.Name = s
			data, total = data[n:], total+n
		case fieldChunkLocalCount:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt local count")
			}
			c.LocalCount = int(v)
			data, total = data[n:], total+n
		case fieldChunkConstant:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt constant")
			}
			v, err := decodeValue(b)
			if err != nil {
				return nil, total, err
			}
			c.Constants = append(c.Constants, v)
			data, total = data[n:], total+n
		case fieldChunkCode:
			if typ != protowire.Fixed32Type {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt code word")
			}
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt code word")
			}
			c.Code = append(c.Code, Instruction(v))
			data, total = data[n:], total+n
		case fieldChunkLine:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt line entry")
			}
			c.Lines = append(c.Lines, int(v))
			data, total = data[n:], total+n
		case fieldChunkTryInfo:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt try-info entry")
			}
			key, info, err := decodeTryInfo(b)
			if err != nil {
				return nil, total, err
			}
			c.tryInfos[key] = info
			data, total = data[n:], total+n
		default:
			data, total, _ = skipField(data, typ, total)
		}
	}
	return c, total, nil
}

func decodeTryInfo(b []byte) (int, TryInfo, error) {
	corrupt := func() (int, TryInfo, error) {
		return 0, TryInfo{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt try-info payload")
	}
	key, n1 := protowire.ConsumeVarint(b)
	if n1 < 0 {
		return corrupt()
	}
	b = b[n1:]
	catch, n2 := protowire.ConsumeVarint(b)
	if n2 < 0 {
		return corrupt()
	}
	b = b[n2:]
	fin, n3 := protowire.ConsumeVarint(b)
	if n3 < 0 {
		return corrupt()
	}
	b = b[n3:]
	flags, n4 := protowire.ConsumeVarint(b)
	if n4 < 0 {
		return corrupt()
	}
	return int(key), TryInfo{
		CatchTarget:   int(catch),
		FinallyTarget: int(fin),
		HasCatch:      flags&1 != 0,
		HasFinally:    flags&2 != 0,
	}, nil
}

// skipField discards one field's payload when decoding a newer artifact
// written by a future version of this emitter; forward-compatible
// decoding is cheap to support here and avoids a hard version gate for
// additive fields.
func skipField(data []byte, typ protowire.Type, total int) ([]byte, int, error) {
	n := protowire.ConsumeFieldValue(0, typ, data)
	if n < 0 {
		return data, total, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt unknown field")
	}
	return data[n:], total + n, nil
}

const (
	valueTagUndefined = 0
	valueTagNull      = 1
	valueTagBool      = 2
	valueTagNumber    = 3
	valueTagString    = 4
	valueTagFunction  = 5
)

func encodeValue(v Value) ([]byte, error) {
	switch v.Type {
	case ValueUndefined:
		return []byte{valueTagUndefined}, nil
	case ValueNull:
		return []byte{valueTagNull}, nil
	case ValueBool:
		b := byte(0)
		if v.Data.(bool) {
			b = 1
		}
		return []byte{valueTagBool, b}, nil
	case ValueNumber:
		out := []byte{valueTagNumber}
		out = protowire.AppendFixed64(out, math.Float64bits(v.Data.(float64)))
		return out, nil
	case ValueString:
		out := []byte{valueTagString}
		out = protowire.AppendString(out, v.Data.(string))
		return out, nil
	case ValueFunction:
		proto := v.Data.(*FunctionProto)
		var pb []byte
		pb = protowire.AppendTag(pb, fieldProtoName, protowire.BytesType)
		pb = protowire.AppendString(pb, proto.Name)
		pb = protowire.AppendTag(pb, fieldProtoArity, protowire.VarintType)
		pb = protowire.AppendVarint(pb, uint64(proto.Arity))
		pb = protowire.AppendTag(pb, fieldProtoLocalCount, protowire.VarintType)
		pb = protowire.AppendVarint(pb, uint64(proto.LocalCount))
		for _, name := range proto.UpvalueNames {
			pb = protowire.AppendTag(pb, fieldProtoUpvalue, protowire.BytesType)
			pb = protowire.AppendString(pb, name)
		}
		cb, err := encodeChunk(proto.Chunk)
		if err != nil {
			return nil, err
		}
		pb = protowire.AppendTag(pb, fieldProtoChunk, protowire.BytesType)
		pb = protowire.AppendBytes(pb, cb)
		return append([]byte{valueTagFunction}, pb...), nil
	default:
		return nil, errorsx.NewEmitError(errorsx.ErrArtifactEncode, "constant pool cannot hold a %s value", v.Type)
	}
}

func decodeValue(b []byte) (Value, error) {
	if len(b) == 0 {
		return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "empty constant")
	}
	tag, rest := b[0], b[1:]
	switch tag {
	case valueTagUndefined:
		return UndefinedValue(), nil
	case valueTagNull:
		return NullValue(), nil
	case valueTagBool:
		if len(rest) == 0 {
			return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "truncated bool constant")
		}
		return BoolValue(rest[0] == 1), nil
	case valueTagNumber:
		bits, n := protowire.ConsumeFixed64(rest)
		if n < 0 {
			return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "truncated number constant")
		}
		return NumberValue(math.Float64frombits(bits)), nil
	case valueTagString:
		s, n := protowire.ConsumeString(rest)
		if n < 0 {
			return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "truncated string constant")
		}
		return StringValue(s), nil
	case valueTagFunction:
		return decodeFunctionProto(rest)
	default:
		return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "unknown constant tag %d", tag)
	}
}

func decodeFunctionProto(data []byte) (Value, error) {
	proto := &FunctionProto{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt function-proto tag")
		}
		data = data[n:]
		switch num {
		case fieldProtoName:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt function name")
			}
			proto.Name = s
			data = data[n:]
		case fieldProtoArity:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt function arity")
			}
			proto.Arity = int(v)
			data = data[n:]
		case fieldProtoLocalCount:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt function local count")
			}
			proto.LocalCount = int(v)
			data = data[n:]
		case fieldProtoUpvalue:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt upvalue name")
			}
			proto.UpvalueNames = append(proto.UpvalueNames, s)
			data = data[n:]
		case fieldProtoChunk:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Value{}, errorsx.NewEmitError(errorsx.ErrArtifactDecode, "corrupt nested chunk")
			}
			chunk, _, err := decodeChunk(b)
			if err != nil {
				return Value{}, err
			}
			proto.Chunk = chunk
			data = data[n:]
		default:
			var err error
			data, _, err = skipField(data, typ, 0)
			if err != nil {
				return Value{}, err
			}
		}
	}
	return Value{Type: ValueFunction, Data: proto}, nil
}
