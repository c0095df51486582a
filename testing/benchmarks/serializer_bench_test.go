package benchmarks

import (
	"testing"

	"github.com/zoobzio/jbind"
	jbindtest "github.com/zoobzio/jbind/testing"
)

func BenchmarkToJSON_SimpleStruct(b *testing.B) {
	eng := jbindtest.NewEngine()
	user := jbindtest.SimpleUser{ID: "123", Name: "Alice"}
	typ := jbind.TypeOf(user)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.ToJSON(user, typ)
	}
}

func BenchmarkToJSON_NestedAccount(b *testing.B) {
	eng := jbindtest.NewEngine()
	acct := jbindtest.SampleAccount()
	typ := jbind.TypeOf(acct)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.ToJSON(acct, typ)
	}
}

func BenchmarkFromJSON_NestedAccount(b *testing.B) {
	eng := jbindtest.NewEngine()
	acct := jbindtest.SampleAccount()
	typ := jbind.TypeOf(acct)
	data, err := eng.ToJSON(acct, typ)
	if err != nil {
		b.Fatalf("ToJSON: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.FromJSON(data, typ)
	}
}

func BenchmarkGetCodec_Cached(b *testing.B) {
	eng := jbindtest.NewEngine()
	typ := jbind.TypeOf(jbindtest.SampleAccount())
	if _, err := eng.GetCodec(typ); err != nil {
		b.Fatalf("GetCodec: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.GetCodec(typ)
	}
}

func BenchmarkToTree_SimpleStruct(b *testing.B) {
	eng := jbindtest.NewEngine()
	user := jbindtest.SimpleUser{ID: "123", Name: "Alice"}
	typ := jbind.TypeOf(user)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.ToTree(user, typ)
	}
}
