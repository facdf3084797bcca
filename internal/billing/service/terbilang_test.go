package service

import "testing"

func TestTerbilang(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "nol rupiah"},
		{"1", "satu rupiah"},
		{"11", "sebelas rupiah"},
		{"17", "tujuh belas rupiah"},
		{"20", "dua puluh rupiah"},
		{"100", "seratus rupiah"},
		{"150", "seratus lima puluh rupiah"},
		{"999", "sembilan ratus sembilan puluh sembilan rupiah"},
		{"1000", "seribu rupiah"},
		{"1500", "seribu lima ratus rupiah"},
		{"2000", "dua ribu rupiah"},
		{"888000", "delapan ratus delapan puluh delapan ribu rupiah"},
		{"1000000", "satu juta rupiah"},
		{"1250000", "satu juta dua ratus lima puluh ribu rupiah"},
		{"2000000000", "dua miliar rupiah"},
		{"888000.75", "delapan ratus delapan puluh delapan ribu rupiah"},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			if got := Terbilang(d(tc.amount)); got != tc.want {
				t.Errorf("Terbilang(%s) = %q, want %q", tc.amount, got, tc.want)
			}
		})
	}
}
