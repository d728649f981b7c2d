package game

import "testing"

func TestCustomerCeiling(t *testing.T) {
	tests := []struct {
		size FactorySize
		want int64
	}{
		{size: SizeI, want: 3},
		{size: SizeII, want: 6},
		{size: SizeIII, want: 9},
		{size: SizeIV, want: 12},
	}
	for _, tc := range tests {
		if got := tc.size.CustomerCeiling(); got != tc.want {
			t.Fatalf("size=%d got=%d want=%d", tc.size, got, tc.want)
		}
	}
}

func TestDecayCampaign(t *testing.T) {
	if got := DecayCampaign(CampaignActive); got != CampaignDecaying {
		t.Fatalf("got %s want %s", got, CampaignDecaying)
	}
	if got := DecayCampaign(CampaignDecaying); got != CampaignExpired {
		t.Fatalf("got %s want %s", got, CampaignExpired)
	}
	if got := DecayCampaign(CampaignExpired); got != CampaignExpired {
		t.Fatalf("expired campaigns stay expired, got %s", got)
	}
}
