package spotifytest

// SidSriram returns a fixture with five tracks whose genre and audio
// feature lookups all succeed.
func SidSriram() Fixture {
	return Fixture{
		Tracks: []Track{
			{ID: "t1", Name: "Adiye", Album: "Bachelor", ReleaseDate: "2021-12-03", Popularity: 61, ArtistID: "sid"},
			{ID: "t2", Name: "Kannaana Kanney", Album: "Viswasam", ReleaseDate: "2019-01-10", Popularity: 58, ArtistID: "sid"},
			{ID: "t3", Name: "Inkem Inkem Inkem Kaavaale", Album: "Geetha Govindam", ReleaseDate: "2018-08-15", Popularity: 64, ArtistID: "sid"},
			{ID: "t4", Name: "Srivalli", Album: "Pushpa - The Rise", ReleaseDate: "2021-12-17", Popularity: 66, ArtistID: "dsp"},
			{ID: "t5", Name: "Samajavaragamana", Album: "Ala Vaikunthapurramuloo", ReleaseDate: "2020", Popularity: 60, ArtistID: "thaman"},
		},
		Genres: map[string][]string{
			"sid":    {"filmi", "tamil pop"},
			"dsp":    {"filmi", "tollywood"},
			"thaman": {"tollywood"},
		},
		Features: map[string]string{
			"t1": `{"id":"t1","tempo":95.012,"key":7,"mode":1,"loudness":-6.743}`,
			"t2": `{"id":"t2","tempo":119.98,"key":2,"mode":0,"loudness":-8.1}`,
			"t3": `{"id":"t3","tempo":140.05,"key":11,"mode":1,"loudness":-5.2}`,
			"t4": `{"id":"t4","tempo":88,"key":0,"mode":0,"loudness":-7.55}`,
			"t5": `{"id":"t5","tempo":102.4,"key":5,"mode":1,"loudness":-4.9}`,
		},
	}
}
