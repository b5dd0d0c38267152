package ntrip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetSourcetable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("SOURCETABLE 200 OK\r\n" +
			"STR;MOUNT1;Server 1;RTCM 3;1005,1077,1087,1097,1127;2;GPS+GLO+GAL+BDS;SNIP;CHN;31.22;121.46;1;1;SNIP;none;B;N;0;\r\n" +
			"STR;MOUNT2;Server 2;RTCM 3;1005,1077,1087,1097,1127;2;GPS+GLO+GAL+BDS;SNIP;CHN;31.22;121.46;1;1;SNIP;none;B;N;0;\r\n" +
			"ENDSOURCETABLE\r\n"))
	}))
	defer server.Close()

	st, err := GetSourcetable(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetSourcetable: %v", err)
	}
	if len(st.Mounts) != 2 {
		t.Fatalf("expected 2 mounts, got %d", len(st.Mounts))
	}
	if st.Mounts[0].Name != "MOUNT1" || st.Mounts[1].Name != "MOUNT2" {
		t.Fatalf("unexpected mount names: %+v", st.Mounts)
	}
}

func TestGetSourcetableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if _, err := GetSourcetable(context.Background(), server.URL); err == nil {
		t.Fatal("expected error, got nil")
	}
}
